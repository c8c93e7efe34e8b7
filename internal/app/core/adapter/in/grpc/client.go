package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client AccountService 的客戶端
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

// Call 以 map 當作請求呼叫指定方法，回傳解碼後的 map
//
// 參數:
//
//	method: string - 方法名稱，例如 MethodDeposit
//	req: map[string]any - 請求欄位
//
// 回傳:
//
//	map[string]any: 回應欄位 (數字會是 float64)
//	error: gRPC status error
func (c *Client) Call(ctx context.Context, method string, req map[string]any) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func (c *Client) Deposit(ctx context.Context, accountID, amount string) (map[string]any, error) {
	return c.Call(ctx, MethodDeposit, map[string]any{"accountId": accountID, "amount": amount})
}

func (c *Client) Payment(ctx context.Context, accountID, amount string) (map[string]any, error) {
	return c.Call(ctx, MethodPayment, map[string]any{"accountId": accountID, "amount": amount})
}

func (c *Client) Transfer(ctx context.Context, sourceID, targetID, amount string) (map[string]any, error) {
	return c.Call(ctx, MethodTransfer, map[string]any{"sourceId": sourceID, "targetId": targetID, "amount": amount})
}

func (c *Client) GetBalance(ctx context.Context, accountNumber string) (map[string]any, error) {
	return c.Call(ctx, MethodGetBalance, map[string]any{"accountNumber": accountNumber})
}
