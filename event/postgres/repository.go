package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/integratewise/webhook-gateway/dispatch"
	"github.com/integratewise/webhook-gateway/event"
	"github.com/integratewise/webhook-gateway/provider"
	_ "github.com/lib/pq" // PostgreSQL driver
)

/* PostgreSQL implementation of event.Repository and dispatch.Store
 * One repository serves both the raw event log and the domain tables the
 * dispatcher mutates; everything lives in the same database and the
 * dispatcher runs in the same request as the insert
 */

type Repository struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

// NewRepository creates a PostgreSQL repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig creates a PostgreSQL repository with custom pool settings
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{DB: db}, nil
}

// Store persists an inbound event and returns its ID
func (r *Repository) Store(ctx context.Context, ev event.InboundEvent) (string, error) {
	metadata, err := json.Marshal(ev.Metadata)
	if err != nil {
		return "", fmt.Errorf("marshaling metadata: %w", err)
	}

	query := `INSERT INTO webhooks (id, provider, event_type, event_id, payload, signature_valid, metadata, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`

	_, err = r.DB.ExecContext(ctx, query,
		ev.ID,
		ev.Provider.String(),
		ev.EventType,
		ev.EventID,
		[]byte(ev.RawPayload),
		ev.SignatureValid,
		metadata,
		ev.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting webhook: %w", err)
	}

	return ev.ID, nil
}

// Get retrieves an inbound event by ID
func (r *Repository) Get(ctx context.Context, id string) (event.InboundEvent, error) {
	query := `SELECT id, provider, event_type, COALESCE(event_id, ''), payload, signature_valid, metadata, created_at
		FROM webhooks WHERE id = $1`

	var (
		ev           event.InboundEvent
		providerName string
		payload      []byte
		metadata     []byte
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&ev.ID,
		&providerName,
		&ev.EventType,
		&ev.EventID,
		&payload,
		&ev.SignatureValid,
		&metadata,
		&ev.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return event.InboundEvent{}, ErrNotFound
	}
	if err != nil {
		return event.InboundEvent{}, fmt.Errorf("selecting webhook: %w", err)
	}

	ev.RawPayload = payload
	if ev.Provider, err = provider.NewProvider(providerName); err != nil {
		return event.InboundEvent{}, fmt.Errorf("parsing stored provider: %w", err)
	}
	if err := json.Unmarshal(metadata, &ev.Metadata); err != nil {
		return event.InboundEvent{}, fmt.Errorf("unmarshaling metadata: %w", err)
	}

	return ev, nil
}

// Count returns the total number of persisted events
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM webhooks").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting webhooks: %w", err)
	}
	return count, nil
}

// UpsertTask inserts or updates a task keyed by its external ID
func (r *Repository) UpsertTask(ctx context.Context, t dispatch.Task) error {
	metadata, err := json.Marshal(t.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling task metadata: %w", err)
	}

	query := `INSERT INTO tasks (external_id, webhook_id, title, description, status, priority, due_date, source, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			webhook_id = EXCLUDED.webhook_id,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			due_date = EXCLUDED.due_date,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()`

	_, err = r.DB.ExecContext(ctx, query,
		t.ExternalID, t.WebhookID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.Source, metadata)
	if err != nil {
		return fmt.Errorf("upserting task: %w", err)
	}
	return nil
}

// DeleteTaskByExternalID removes the task synced from the given external ID
func (r *Repository) DeleteTaskByExternalID(ctx context.Context, externalID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM tasks WHERE external_id = $1", externalID)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// InsertLead inserts a CRM lead
func (r *Repository) InsertLead(ctx context.Context, l dispatch.Lead) error {
	metadata, err := json.Marshal(l.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling lead metadata: %w", err)
	}

	query := `INSERT INTO leads (external_id, webhook_id, name, email, phone, company, title, source, metadata, created_at)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8, $9, NOW())`

	_, err = r.DB.ExecContext(ctx, query,
		l.ExternalID, l.WebhookID, l.Name, l.Email, l.Phone, l.Company, l.Title, l.Source, metadata)
	if err != nil {
		return fmt.Errorf("inserting lead: %w", err)
	}
	return nil
}

// UpsertOpportunity inserts or updates a deal keyed by its external ID
func (r *Repository) UpsertOpportunity(ctx context.Context, o dispatch.Opportunity) error {
	metadata, err := json.Marshal(o.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling opportunity metadata: %w", err)
	}

	query := `INSERT INTO opportunities (external_id, webhook_id, name, value, stage, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			webhook_id = EXCLUDED.webhook_id,
			name = EXCLUDED.name,
			value = EXCLUDED.value,
			stage = EXCLUDED.stage,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()`

	_, err = r.DB.ExecContext(ctx, query,
		o.ExternalID, o.WebhookID, o.Name, o.Value, o.Stage, metadata)
	if err != nil {
		return fmt.Errorf("upserting opportunity: %w", err)
	}
	return nil
}

// UpsertClient inserts or updates a company record keyed by its external ID
func (r *Repository) UpsertClient(ctx context.Context, c dispatch.Client) error {
	metadata, err := json.Marshal(c.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling client metadata: %w", err)
	}

	query := `INSERT INTO clients (external_id, webhook_id, company, website, industry, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (external_id) DO UPDATE SET
			webhook_id = EXCLUDED.webhook_id,
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			industry = EXCLUDED.industry,
			metadata = EXCLUDED.metadata,
			updated_at = NOW()`

	_, err = r.DB.ExecContext(ctx, query,
		c.ExternalID, c.WebhookID, c.Company, c.Website, c.Industry, metadata)
	if err != nil {
		return fmt.Errorf("upserting client: %w", err)
	}
	return nil
}

// InsertChatMessage records a message captured from a chat platform
func (r *Repository) InsertChatMessage(ctx context.Context, m dispatch.ChatMessage) error {
	metadata, err := json.Marshal(m.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling chat message metadata: %w", err)
	}

	query := `INSERT INTO chat_messages (webhook_id, platform, platform_id, channel_id, team_id, user_id, user_name, content, thread_id, is_bot, metadata, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12, NOW())`

	_, err = r.DB.ExecContext(ctx, query,
		m.WebhookID, m.Platform, m.PlatformID, m.ChannelID, m.TeamID, m.UserID, m.UserName, m.Content, m.ThreadID, m.IsBot, metadata, m.SentAt)
	if err != nil {
		return fmt.Errorf("inserting chat message: %w", err)
	}
	return nil
}

// InsertActivity records a feed entry
func (r *Repository) InsertActivity(ctx context.Context, a dispatch.Activity) error {
	metadata, err := json.Marshal(a.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling activity metadata: %w", err)
	}

	query := `INSERT INTO activities (webhook_id, activity_type, title, description, icon, color, actor_name, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`

	_, err = r.DB.ExecContext(ctx, query,
		a.WebhookID, a.ActivityType, a.Title, a.Description, a.Icon, a.Color, a.ActorName, metadata)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

// InsertInteraction records a searchable copy of the event content
func (r *Repository) InsertInteraction(ctx context.Context, i dispatch.Interaction) error {
	metadata, err := json.Marshal(i.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling interaction metadata: %w", err)
	}

	query := `INSERT INTO interactions (webhook_id, source, title, content, source_url, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`

	_, err = r.DB.ExecContext(ctx, query,
		i.WebhookID, i.Source, i.Title, i.Content, i.SourceURL, metadata)
	if err != nil {
		return fmt.Errorf("inserting interaction: %w", err)
	}
	return nil
}

// Close closes the database connection pool
func (r *Repository) Close(ctx context.Context) error {
	return r.DB.Close()
}
