package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type requestDataKey struct{}

// RequestData carries per-request identity and the declared accessibility
// category resolved by middleware. The category is raw request metadata;
// mapping it to a known category happens at selection time.
type RequestData struct {
	UserID                uuid.UUID
	AccessibilityCategory string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	rd, _ := ctx.Value(requestDataKey{}).(*RequestData)
	return rd
}
