package token

import "chatterbox_service/pkg/config"

// overridden in tests
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper indirection point so usecase tests can mock token creation
func GenerateJWTWrapper(memberID, role string) (string, error) {
	return GenerateJWTFunc(memberID, role, config.EnvConfig.ChatService)
}

// ParseJWTWrapper indirection point so usecase tests can mock token parsing
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
