package api

import (
	"context"
)

type keyType string

const (
	adminUserKey keyType = "adminUser"
)

// ctxWithAdminUser attaches the authenticated admin's username for audit
// attribution downstream.
func ctxWithAdminUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminUserKey, username)
}

// adminUserFromCtx returns the authenticated admin's username, or "" when
// the request did not pass the access gate.
func adminUserFromCtx(ctx context.Context) string {
	if v := ctx.Value(adminUserKey); v != nil {
		if username, ok := v.(string); ok {
			return username
		}
	}
	return ""
}
