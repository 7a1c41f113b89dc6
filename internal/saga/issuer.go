package saga

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"showcase-service/internal/usecase/commands"

	"github.com/google/uuid"
)

// LocalIssuer routes deadline-triggered commands through the in-process
// command service, the embedded deployment of the orchestration protocol.
type LocalIssuer struct {
	cmds commands.ShowcaseCommands
}

func NewLocalIssuer(cmds commands.ShowcaseCommands) *LocalIssuer {
	return &LocalIssuer{cmds: cmds}
}

func (i *LocalIssuer) Start(ctx context.Context, id uuid.UUID) error {
	return i.cmds.Start(ctx, id)
}

func (i *LocalIssuer) Finish(ctx context.Context, id uuid.UUID) error {
	return i.cmds.Finish(ctx, id)
}

// RemoteIssuer posts commands to a showcase API node, for running the
// orchestrator as a standalone process. Same protocol, different boundary.
type RemoteIssuer struct {
	baseURL string
	client  *http.Client
}

func NewRemoteIssuer(baseURL string) *RemoteIssuer {
	return &RemoteIssuer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (i *RemoteIssuer) Start(ctx context.Context, id uuid.UUID) error {
	return i.post(ctx, fmt.Sprintf("%s/api/showcases/%s/start", i.baseURL, id))
}

func (i *RemoteIssuer) Finish(ctx context.Context, id uuid.UUID) error {
	return i.post(ctx, fmt.Sprintf("%s/api/showcases/%s/finish", i.baseURL, id))
}

func (i *RemoteIssuer) post(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	resp, err := i.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("command rejected: %s returned %d", url, resp.StatusCode)
	}
	return nil
}
