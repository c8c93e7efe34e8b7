package grpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/JoeShih716/go-account-ledger/internal/app/core/domain"
)

// request 讀取 structpb.Struct 欄位，缺少的欄位視為零值
type request struct {
	*structpb.Struct
}

func (r request) str(key string) string {
	return r.GetFields()[key].GetStringValue()
}

func (r request) number(key string) int {
	return int(r.GetFields()[key].GetNumberValue())
}

func (r request) listQuery() domain.ListQuery {
	return domain.ListQuery{
		Search: domain.SearchSpec{
			Field: r.str("searchField"),
			Value: r.str("searchValue"),
		},
		Sort: domain.SortSpec{
			Field:     r.str("sortField"),
			Direction: domain.ParseSortDirection(r.str("sortDirection")),
		},
	}
}

func (r request) pageRequest() domain.PageRequest {
	return domain.PageRequest{
		PageNumber: r.number("pageNumber"),
		PageSize:   r.number("pageSize"),
	}
}

func response(fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func detailFields(d domain.AccountDetail) map[string]any {
	return map[string]any{
		"id":            d.ID,
		"ownerName":     d.OwnerName,
		"email":         d.Email,
		"accountNumber": d.AccountNumber,
		"bank":          d.Bank,
		"balance":       domain.FormatAmount(d.Balance),
	}
}

func receiptFields(r domain.Receipt) map[string]any {
	tran := r.Transaction
	fields := map[string]any{
		"transactionId": tran.TransactionID.String(),
		"type":          tran.Type.String(),
		"amount":        domain.FormatAmount(tran.Amount),
		"createdAt":     tran.CreatedAt,
	}
	if tran.From != "" {
		fields["fromAccountId"] = tran.From
		fields["fromBalance"] = domain.FormatAmount(r.FromBalance)
	}
	if tran.To != "" {
		fields["toAccountId"] = tran.To
		fields["toBalance"] = domain.FormatAmount(r.ToBalance)
	}
	return fields
}
