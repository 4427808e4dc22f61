package auth

import "strings"

// StripBearer removes the scheme label from an Authorization header value.
func StripBearer(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMissingBearer
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingBearer
	}
	return token, nil
}
