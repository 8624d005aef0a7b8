package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/TransferDaily/internal/domain"
)

// listOf fetches a collection endpoint that wraps its rows under key.
func listOf[T any](ctx context.Context, c *Client, token, endpoint, path, key string, q url.Values) ([]T, error) {
	var resp map[string][]T
	err := c.do(ctx, request{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     path,
		query:    q,
		token:    token,
		out:      &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp[key], nil
}

// save creates the entity when id is empty and replaces it otherwise.
func save[T any](ctx context.Context, c *Client, token, endpoint, path, id string, in *T) (*T, error) {
	method := http.MethodPost
	if id != "" {
		method = http.MethodPut
		path += "/" + url.PathEscape(id)
	}
	var out T
	err := c.do(ctx, request{
		endpoint: endpoint,
		method:   method,
		path:     path,
		token:    token,
		body:     in,
		out:      &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) remove(ctx context.Context, token, endpoint, path, id string) error {
	return c.do(ctx, request{
		endpoint: endpoint,
		method:   http.MethodDelete,
		path:     path + "/" + url.PathEscape(id),
		token:    token,
	})
}

func (c *Client) Clubs(ctx context.Context, token string) ([]domain.Club, error) {
	return listOf[domain.Club](ctx, c, token, "admin_clubs", "/admin/clubs", "clubs", nil)
}

func (c *Client) SaveClub(ctx context.Context, token string, club *domain.Club) (*domain.Club, error) {
	return save(ctx, c, token, "admin_club_save", "/admin/clubs", club.ID, club)
}

func (c *Client) DeleteClub(ctx context.Context, token, id string) error {
	return c.remove(ctx, token, "admin_club_delete", "/admin/clubs", id)
}

func (c *Client) Leagues(ctx context.Context, token string) ([]domain.League, error) {
	return listOf[domain.League](ctx, c, token, "admin_leagues", "/admin/leagues", "leagues", nil)
}

func (c *Client) SaveLeague(ctx context.Context, token string, l *domain.League) (*domain.League, error) {
	return save(ctx, c, token, "admin_league_save", "/admin/leagues", l.ID, l)
}

func (c *Client) DeleteLeague(ctx context.Context, token, id string) error {
	return c.remove(ctx, token, "admin_league_delete", "/admin/leagues", id)
}

func (c *Client) Players(ctx context.Context, token string) ([]domain.Player, error) {
	return listOf[domain.Player](ctx, c, token, "admin_players", "/admin/players", "players", nil)
}

func (c *Client) SavePlayer(ctx context.Context, token string, p *domain.Player) (*domain.Player, error) {
	return save(ctx, c, token, "admin_player_save", "/admin/players", p.ID, p)
}

func (c *Client) DeletePlayer(ctx context.Context, token, id string) error {
	return c.remove(ctx, token, "admin_player_delete", "/admin/players", id)
}
