package utility

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenClaims chứa data được mã hóa trong JWT token
type TokenClaims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// CreateToken tạo JWT token HS256 cho user với thời hạn expireHours
func CreateToken(secret string, userID string, expireHours int) (string, error) {
	if expireHours <= 0 {
		expireHours = 72
	}

	claims := TokenClaims{
		UserID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Duration(expireHours) * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ErrTokenExpired báo token đã hết hạn (phân biệt với token sai định dạng/chữ ký)
var ErrTokenExpired = fmt.Errorf("token đã hết hạn")

// ParseToken verify chữ ký và parse claims từ JWT token
func ParseToken(secret string, tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không được hỗ trợ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if vErr, ok := err.(*jwt.ValidationError); ok && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token không hợp lệ")
	}
	return claims, nil
}
