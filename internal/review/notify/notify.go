// Package notify is the narrow contract to the outbound messaging system.
// Formatting and delivery of the actual email live outside this service; the
// adapter here only posts the event to the mailer webhook.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/draftpad/draftpad/internal/review/model"
)

type Notifier interface {
	// InviteAccepted reports that the invitation was accepted by the
	// identity signed in with acceptedEmail.
	InviteAccepted(ctx context.Context, inv *model.Invitation, acceptedEmail string) error
}

// Conf configures the webhook notifier. An empty URL disables it.
type Conf struct {
	URL       string `mapstructure:"url"`
	TimeoutMS int    `mapstructure:"timeoutMs"`
}

type noopNotifier struct{}

func (noopNotifier) InviteAccepted(context.Context, *model.Invitation, string) error {
	return nil
}

// Noop returns a notifier that drops every event.
func Noop() Notifier {
	return noopNotifier{}
}

type webhookNotifier struct {
	client *resty.Client
	url    string
}

// NewWebhook returns a notifier posting events to the configured mailer
// webhook, or a noop notifier when no URL is configured.
func NewWebhook(conf Conf) Notifier {
	if conf.URL == "" {
		return Noop()
	}
	timeout := 5 * time.Second
	if conf.TimeoutMS > 0 {
		timeout = time.Duration(conf.TimeoutMS) * time.Millisecond
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2)
	return &webhookNotifier{client: client, url: conf.URL}
}

type inviteAcceptedEvent struct {
	Event         string `json:"event"`
	InvitationId  string `json:"invitationId"`
	Token         string `json:"token"`
	TargetEmail   string `json:"targetEmail"`
	AcceptedEmail string `json:"acceptedEmail"`
	ProjectId     string `json:"projectId"`
	PromptId      string `json:"promptId"`
}

func (n *webhookNotifier) InviteAccepted(ctx context.Context, inv *model.Invitation, acceptedEmail string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(inviteAcceptedEvent{
			Event:         "invite.accepted",
			InvitationId:  inv.InvitationId,
			Token:         inv.Token,
			TargetEmail:   inv.TargetEmail,
			AcceptedEmail: acceptedEmail,
			ProjectId:     inv.ProjectId,
			PromptId:      inv.PromptId,
		}).
		Post(n.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("notifier webhook returned %s", resp.Status())
	}
	return nil
}
