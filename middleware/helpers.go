package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dosada05/arena/utils"
)

func fromContext(ctx context.Context) access {
	acc, _ := ctx.Value(accessContextKey).(access)
	return acc
}

func ClaimsFromContext(ctx context.Context) (*utils.TokenClaims, bool) {
	acc := fromContext(ctx)
	return acc.claims, acc.claims != nil
}

// GetUserIDFromContext возвращает id пользователя из токена или ok=false
// для анонимного запроса.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// IsAdmin истинно для токена администратора и для любого запроса,
// пока аутентификация не обязательна.
func IsAdmin(ctx context.Context) bool {
	acc := fromContext(ctx)
	if acc.claims != nil && acc.claims.IsAdmin {
		return true
	}
	return !acc.enforced
}

// CanActFor сообщает, может ли текущий запрос действовать от имени userID.
func CanActFor(ctx context.Context, userID int) bool {
	if IsAdmin(ctx) {
		return true
	}
	id, ok := GetUserIDFromContext(ctx)
	return ok && id == userID
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
