package services

import "context"

type requestIDKey struct{}

// WithRequestID agrega el ID de la petición al contexto
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext obtiene el ID de la petición, o "" si no existe
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}
