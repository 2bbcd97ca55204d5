package request

import (
	"context"
	"errors"
	"strings"

	"github.com/contech-dc/contrack/internal/domain"
	"github.com/contech-dc/contrack/internal/store"
)

// Login checks the stored credentials for a username. Auth here is a plain
// credential lookup; there is no session state. The returned user never
// carries the password.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, validationf("username and password are required")
	}

	var u domain.User
	err := s.store.Get(ctx, store.Users, username, &u)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, wrap("login", err)
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}

	u.Username = username
	u.Password = ""
	return &u, nil
}

// ListUsers returns every user with the password stripped.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	docs, err := s.store.StreamAll(ctx, store.Users)
	if err != nil {
		return nil, wrap("list users", err)
	}
	users := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		var u domain.User
		if err := d.Decode(&u); err != nil {
			return nil, wrap("decode user", err)
		}
		u.Username = d.ID
		u.Password = ""
		users = append(users, u)
	}
	return users, nil
}

// UpsertUserInput is the caller input for creating or updating a user.
type UpsertUserInput struct {
	Username   string
	Fullname   string
	Department string
	Role       string
	Password   string
}

// UpsertUser creates or updates a user document via a field-level merge,
// so an update without a password keeps the stored one. Returns the
// user (without password) and whether it was newly created.
func (s *Service) UpsertUser(ctx context.Context, in UpsertUserInput) (*domain.User, bool, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, false, validationf("username is required")
	}

	department := in.Department
	if department == "" {
		department = "ST"
	}
	role := in.Role
	if role == "" {
		role = "engineer"
	}

	var created bool
	err := s.store.Transact(ctx, func(tx store.Ops) error {
		var existing domain.User
		err := tx.Get(ctx, store.Users, username, &existing)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		created = errors.Is(err, store.ErrNotFound)

		fields := map[string]any{
			"username":   username,
			"fullname":   in.Fullname,
			"department": department,
			"role":       role,
			"updatedAt":  s.clock.Stamp(),
		}
		if in.Password != "" {
			fields["password"] = in.Password
		}
		if created {
			fields["createdAt"] = s.clock.Stamp()
			fields["lastLogin"] = nil
		}
		return tx.Merge(ctx, store.Users, username, fields)
	})
	if err != nil {
		return nil, false, wrap("upsert user", err)
	}

	return &domain.User{
		Username:   username,
		Fullname:   in.Fullname,
		Department: department,
		Role:       role,
	}, created, nil
}

// DeleteUser removes a user. Returns ErrNotFound when the user is absent.
func (s *Service) DeleteUser(ctx context.Context, username string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return validationf("username is required")
	}

	err := s.store.Transact(ctx, func(tx store.Ops) error {
		var u domain.User
		if err := tx.Get(ctx, store.Users, username, &u); err != nil {
			return err
		}
		return tx.Delete(ctx, store.Users, username)
	})
	return wrap("delete user", err)
}
