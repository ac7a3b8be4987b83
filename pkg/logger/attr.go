package logger

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/painelhub/accesskit/pkg/catalog"
)

// Error records a single error under the key "error".
// A nil error yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records a user identifier under the key "user_id".
func UserID(id uuid.UUID) slog.Attr {
	return slog.String("user_id", id.String())
}

// RoleID records a role identifier under the key "role_id".
func RoleID(id uuid.UUID) slog.Attr {
	return slog.String("role_id", id.String())
}

// TenantID records a tenant identifier under the key "tenant_id".
// A nil pointer, the backoffice case, yields an empty Attr.
func TenantID(id *uuid.UUID) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.String("tenant_id", id.String())
}

// Scope records an access scope under the key "scope".
func Scope(scope catalog.Scope) slog.Attr {
	return slog.String("scope", string(scope))
}

// Permission records a permission key under the key "permission".
func Permission(key string) slog.Attr {
	return slog.String("permission", key)
}

// Route records a route path under the key "route".
func Route(path string) slog.Attr {
	return slog.String("route", path)
}
