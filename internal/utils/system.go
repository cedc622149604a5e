package utils

import (
	"os/user"
	"regexp"
	"strings"
)

var unsafeIDChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// DefaultUserID derives a user ID from the system username, for when --user
// is not given. Returns "" if the username cannot be determined.
func DefaultUserID() string {
	name, err := GetUsername()
	if err != nil {
		return ""
	}
	// Windows usernames come as DOMAIN\user.
	if i := strings.LastIndex(name, `\`); i >= 0 {
		name = name[i+1:]
	}
	name = unsafeIDChars.ReplaceAllString(name, "-")
	return strings.Trim(name, "-.")
}
