package client

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// Login authenticates, stores the credential and caches the profile.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var res authResponseDTO
	err := c.postJSON(ctx, "/api/v1/auth/login", loginDTO{Email: email, Password: password}, &res)
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok && apiErr.Code == CodeUnauthorized {
			apiErr.Code = CodeInvalidCredentials
		}
		return nil, err
	}
	if err = c.tokens.Set(res.AccessToken); err != nil {
		return nil, errors.Wrap(err, "storing token")
	}
	usr := res.User.unpack()
	c.setCurrentUser(&usr)
	return &usr, nil
}

// Registration contains information needed to open a new account.
type Registration struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Register opens an account and logs it in right away.
func (c *Client) Register(ctx context.Context, reg Registration) (*User, error) {
	var res authResponseDTO
	err := c.postJSON(ctx, "/api/v1/auth/register", registerDTO(reg), &res)
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok && apiErr.Code == CodeValidationError {
			if msg, exists := apiErr.Fields["email"]; exists && strings.Contains(msg, "already exists") {
				apiErr.Code = CodeDuplicateEmail
				apiErr.Message = msg
			}
		}
		return nil, err
	}
	if err = c.tokens.Set(res.AccessToken); err != nil {
		return nil, errors.Wrap(err, "storing token")
	}
	usr := res.User.unpack()
	c.setCurrentUser(&usr)
	return &usr, nil
}

// Logout tells the server best-effort and unconditionally drops the session.
func (c *Client) Logout(ctx context.Context) error {
	_ = c.postJSON(ctx, "/api/v1/auth/logout", nil, nil)
	c.setCurrentUser(nil)
	return c.tokens.Clear()
}

// Restore revalidates a persisted credential on startup. A rejected
// credential is discarded silently; only network failures are reported.
func (c *Client) Restore(ctx context.Context) error {
	token, err := c.tokens.Get()
	if err != nil {
		return errors.Wrap(err, "reading token")
	}
	if token == "" {
		c.setCurrentUser(nil)
		return nil
	}

	var usr userDTO
	if err = c.getJSON(ctx, "/api/v1/users/me", &usr); err != nil {
		_ = c.tokens.Clear()
		c.setCurrentUser(nil)
		if apiErr, ok := AsAPIError(err); ok && apiErr.Code == CodeNetworkUnavailable {
			return err
		}
		return nil
	}
	u := usr.unpack()
	c.setCurrentUser(&u)
	return nil
}
