package rollservice

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// Client calls RollService over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an existing connection.
//
// Precondition: cc must be non-nil.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens an insecure connection to addr and returns a Client together
// with the connection, which the caller must close.
func Dial(addr string) (*Client, *grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, fmt.Errorf("dialing roll service at %s: %w", addr, err)
	}
	return NewClient(conn), conn, nil
}

// Call invokes method with a request built from fields and returns the raw
// response.
func (c *Client) Call(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) roll(ctx context.Context, method string, fields map[string]any) (dice.RollResult, error) {
	out, err := c.Call(ctx, method, fields)
	if err != nil {
		return dice.RollResult{}, err
	}
	return DecodeRoll(out)
}

// Evaluate rolls a complex formula remotely.
func (c *Client) Evaluate(ctx context.Context, formula string, mode dice.AdvantageMode, modifier int) (dice.RollResult, error) {
	return c.roll(ctx, MethodEvaluate, map[string]any{
		FieldFormula:  formula,
		FieldMode:     mode.String(),
		FieldModifier: modifier,
	})
}

// EvaluateSimple rolls a simple formula remotely.
func (c *Client) EvaluateSimple(ctx context.Context, formula string) (dice.RollResult, error) {
	return c.roll(ctx, MethodEvaluateSimple, map[string]any{FieldFormula: formula})
}

// RollPreset rolls a named preset remotely.
func (c *Client) RollPreset(ctx context.Context, id string, modifier int) (dice.RollResult, error) {
	return c.roll(ctx, MethodRollPreset, map[string]any{
		FieldPreset:   id,
		FieldModifier: modifier,
	})
}

// Parse returns the canonical form of formula as reported by the service.
func (c *Client) Parse(ctx context.Context, formula string) (string, error) {
	out, err := c.Call(ctx, MethodParse, map[string]any{FieldFormula: formula})
	if err != nil {
		return "", err
	}
	return stringField(out, "canonical"), nil
}
