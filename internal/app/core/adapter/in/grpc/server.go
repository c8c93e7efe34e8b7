package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-account-ledger/internal/app/core/usecase"
)

// GrpcServer 將 gRPC 請求轉成 CoreUseCase 呼叫
//
// 金額在線上一律是十進位字串 (e.g. "12.50")，避免 float 精度問題。
type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

func (s *GrpcServer) CreateAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	opening := int64(0)
	if raw := req.str("openingBalance"); raw != "" {
		amount, err := domain.ParseAmount(raw)
		if err != nil {
			return nil, toStatus(err)
		}
		opening = amount
	}
	detail, err := s.core.CreateAccount(ctx, domain.NewAccount{
		OwnerName:      req.str("ownerName"),
		Email:          req.str("email"),
		AccountNumber:  req.str("accountNumber"),
		Bank:           req.str("bank"),
		OpeningBalance: opening,
		Password:       req.str("password"),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return response(detailFields(detail))
}

// GetAccount 以 id 或 accountNumber 查詢 (id 優先)
func (s *GrpcServer) GetAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	var (
		detail domain.AccountDetail
		found  bool
		err    error
	)
	switch {
	case req.str("id") != "":
		detail, found, err = s.core.GetByID(ctx, req.str("id"))
	case req.str("accountNumber") != "":
		detail, found, err = s.core.GetByAccountNumber(ctx, req.str("accountNumber"))
	default:
		return nil, status.Error(codes.InvalidArgument, "id or accountNumber is required")
	}
	if err != nil {
		return nil, toStatus(err)
	}
	if !found {
		return nil, status.Error(codes.NotFound, domain.ErrAccountNotFound.Error())
	}
	return response(detailFields(detail))
}

func (s *GrpcServer) GetBalance(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	view, found, err := s.core.GetBalance(ctx, request{in}.str("accountNumber"))
	if err != nil {
		return nil, toStatus(err)
	}
	if !found {
		return nil, status.Error(codes.NotFound, domain.ErrAccountNotFound.Error())
	}
	return response(map[string]any{
		"ownerName": view.OwnerName,
		"email":     view.Email,
		"balance":   domain.FormatAmount(view.Balance),
	})
}

func (s *GrpcServer) UpdateAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	if err := s.core.UpdateAccount(ctx, req.str("id"), req.str("ownerName"), req.str("email"), req.str("accountNumber")); err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{"id": req.str("id")})
}

func (s *GrpcServer) DeleteAccount(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	id := request{in}.str("id")
	if err := s.core.DeleteAccount(ctx, id); err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{"id": id})
}

func (s *GrpcServer) ChangePassword(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	if err := s.core.ChangePassword(ctx, req.str("id"), req.str("password")); err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{"id": req.str("id")})
}

func (s *GrpcServer) CheckPassword(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	ok, err := s.core.CheckPassword(ctx, req.str("id"), req.str("password"))
	if err != nil {
		return nil, toStatus(err)
	}
	return response(map[string]any{"valid": ok})
}

func (s *GrpcServer) Deposit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	amount, err := domain.ParseAmount(req.str("amount"))
	if err != nil {
		return nil, toStatus(err)
	}
	receipt, err := s.core.Deposit(ctx, req.str("accountId"), amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(receiptFields(receipt))
}

func (s *GrpcServer) Payment(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	amount, err := domain.ParseAmount(req.str("amount"))
	if err != nil {
		return nil, toStatus(err)
	}
	receipt, err := s.core.Payment(ctx, req.str("accountId"), amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(receiptFields(receipt))
}

func (s *GrpcServer) Transfer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	amount, err := domain.ParseAmount(req.str("amount"))
	if err != nil {
		return nil, toStatus(err)
	}
	receipt, err := s.core.Transfer(ctx, req.str("sourceId"), req.str("targetId"), amount)
	if err != nil {
		return nil, toStatus(err)
	}
	return response(receiptFields(receipt))
}

// ListAccounts 分頁摘要模式：完整結果 (不含 email) + 分頁資訊
func (s *GrpcServer) ListAccounts(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	summary, err := s.core.ListPageSummary(ctx, req.listQuery(), req.pageRequest())
	if err != nil {
		return nil, toStatus(err)
	}
	accounts := make([]any, 0, len(summary.Accounts))
	for _, acc := range summary.Accounts {
		accounts = append(accounts, map[string]any{
			"id":            acc.ID,
			"ownerName":     acc.OwnerName,
			"accountNumber": acc.AccountNumber,
			"bank":          acc.Bank,
			"balance":       domain.FormatAmount(acc.Balance),
		})
	}
	return response(map[string]any{
		"accounts":         accounts,
		"totalCount":       summary.TotalCount,
		"totalPages":       summary.TotalPages,
		"pageNumber":       summary.PageNumber,
		"pageSize":         summary.PageSize,
		"hasPreviousPages": summary.HasPreviousPages,
		"hasNextPages":     summary.HasNextPages,
	})
}

// ListAccountPage 切片模式：只回傳該頁 (含 email)
func (s *GrpcServer) ListAccountPage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := request{in}
	page, err := s.core.ListPage(ctx, req.listQuery(), req.pageRequest())
	if err != nil {
		return nil, toStatus(err)
	}
	accounts := make([]any, 0, len(page.Accounts))
	for _, acc := range page.Accounts {
		accounts = append(accounts, detailFields(acc))
	}
	return response(map[string]any{
		"accounts":   accounts,
		"totalCount": page.TotalCount,
		"pageNumber": page.PageNumber,
		"pageSize":   page.PageSize,
	})
}
