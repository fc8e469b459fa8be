package api

import (
	"context"

	"laborctl/internal/models"
)

// Login exchanges admin credentials for tokens and stores them in the
// client's session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var s models.Session
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, loginPath, body, &s); err != nil {
		return nil, err
	}
	if s.AccessToken == "" {
		return nil, &Error{Message: "login response did not include an access token"}
	}
	if err := c.session.Set(s.AccessToken, s.RefreshToken, s.User); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout revokes the refresh token server side and clears the local session
// whether or not the server call succeeds.
func (c *Client) Logout(ctx context.Context) error {
	body := map[string]string{}
	if rt := c.session.RefreshToken(); rt != "" {
		body["refreshToken"] = rt
	}
	callErr := c.post(ctx, c.apipath("auth", "logout"), body, nil)
	if err := c.session.Clear(); err != nil {
		return err
	}
	return callErr
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, c.apipath("auth", "me"), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context, p ListParams) (models.Page[models.User], error) {
	return list[models.User](ctx, c, c.apipath("admin", "users"), p, "users")
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := c.get(ctx, c.apipath("admin", "users", id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CreateUser(ctx context.Context, fields map[string]any) (*models.User, error) {
	var u models.User
	if err := c.post(ctx, c.apipath("admin", "users"), fields, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	var u models.User
	if err := c.put(ctx, c.apipath("admin", "users", id), fields, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, c.apipath("admin", "users", id))
}

// ListRoles returns admin roles; older backends answer with "items".
func (c *Client) ListRoles(ctx context.Context, p ListParams) (models.Page[models.Ref], error) {
	return list[models.Ref](ctx, c, c.apipath("admin", "roles"), p, "roles")
}

func (c *Client) ListSkills(ctx context.Context, p ListParams) (models.Page[models.Ref], error) {
	return list[models.Ref](ctx, c, c.apipath("skills"), p, "skills")
}

func (c *Client) ListCategories(ctx context.Context, p ListParams) (models.Page[models.Category], error) {
	return list[models.Category](ctx, c, c.apipath("categories"), p, "categories")
}

func (c *Client) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	if err := c.get(ctx, c.apipath("categories", id), nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) CreateCategory(ctx context.Context, fields map[string]any) (*models.Category, error) {
	var cat models.Category
	if err := c.post(ctx, c.apipath("categories"), fields, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, fields map[string]any) (*models.Category, error) {
	var cat models.Category
	if err := c.put(ctx, c.apipath("categories", id), fields, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.delete(ctx, c.apipath("categories", id))
}

func (c *Client) ToggleCategory(ctx context.Context, id string) (*models.Category, error) {
	var cat models.Category
	if err := c.patch(ctx, c.apipath("categories", id, "toggle-active"), nil, &cat); err != nil {
		return nil, err
	}
	return &cat, nil
}
