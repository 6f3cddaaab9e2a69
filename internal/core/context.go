package core

import "context"

type contextKey string

const ctxKeyClientIP contextKey = "client_ip"

// ContextWithClientIP records the requesting client's address so import
// sessions can log who uploaded a file.
func ContextWithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyClientIP, ip)
}

// ClientIPFromContext returns the address stored by ContextWithClientIP.
func ClientIPFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClientIP).(string); ok {
		return v
	}
	return ""
}
