package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/TransferDaily/internal/domain"
)

// Subscribers lists newsletter subscribers.
func (c *Client) Subscribers(ctx context.Context, token string, page, limit int) ([]domain.NewsletterSubscriber, error) {
	return listOf[domain.NewsletterSubscriber](ctx, c, token, "admin_subscribers", "/admin/newsletter", "subscribers", pageQuery(page, limit))
}

func (c *Client) SetSubscriberStatus(ctx context.Context, token, id string, status domain.SubscriberStatus) error {
	return c.do(ctx, request{
		endpoint: "admin_subscriber_status",
		method:   http.MethodPatch,
		path:     "/admin/newsletter/" + url.PathEscape(id),
		token:    token,
		body:     map[string]domain.SubscriberStatus{"status": status},
	})
}

func (c *Client) DeleteSubscriber(ctx context.Context, token, id string) error {
	return c.remove(ctx, token, "admin_subscriber_delete", "/admin/newsletter", id)
}

// Contacts lists contact form submissions, newest first.
func (c *Client) Contacts(ctx context.Context, token string, page, limit int) ([]domain.ContactSubmission, error) {
	return listOf[domain.ContactSubmission](ctx, c, token, "admin_contacts", "/admin/contact", "submissions", pageQuery(page, limit))
}

func (c *Client) SetContactStatus(ctx context.Context, token, id string, status domain.ContactStatus) error {
	return c.do(ctx, request{
		endpoint: "admin_contact_status",
		method:   http.MethodPatch,
		path:     "/admin/contact/" + url.PathEscape(id),
		token:    token,
		body:     map[string]domain.ContactStatus{"status": status},
	})
}

func (c *Client) DeleteContact(ctx context.Context, token, id string) error {
	return c.remove(ctx, token, "admin_contact_delete", "/admin/contact", id)
}

// Stats fetches dashboard counters.
func (c *Client) Stats(ctx context.Context, token string) (*domain.Stats, error) {
	var stats domain.Stats
	err := c.do(ctx, request{
		endpoint: "admin_stats",
		method:   http.MethodGet,
		path:     "/admin/stats",
		token:    token,
		out:      &stats,
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
