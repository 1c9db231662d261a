// Package backup writes encrypted JSON snapshots of the ward register to
// S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/wardbook/internal/docstore"
	"github.com/dukerupert/wardbook/internal/model"
)

var (
	ErrDisabled   = errors.New("backup not configured: S3 credentials missing")
	ErrPassphrase = errors.New("backup passphrase not configured")
	ErrInProgress = errors.New("backup already in progress")
)

// Collections are the collections every snapshot carries.
var Collections = []string{
	model.CollectionFamilies,
	model.CollectionMembers,
	model.CollectionRequests,
}

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

func (c S3Config) complete() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

type Config struct {
	S3         S3Config
	Passphrase string
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"last_backup,omitempty"`
	LastKey    string     `json:"last_key,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Record is one stored document in a snapshot.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Snapshot is the plaintext body of a backup object.
type Snapshot struct {
	TakenAt     time.Time           `json:"taken_at"`
	Collections map[string][]Record `json:"collections"`
}

// Result describes an uploaded backup.
type Result struct {
	Key       string    `json:"key"`
	SizeBytes int64     `json:"size_bytes"`
	TakenAt   time.Time `json:"taken_at"`
	Documents int       `json:"documents"`
}

// Manager takes snapshots of the document store and uploads them.
type Manager struct {
	mu     sync.RWMutex
	cfg    Config
	status Status
	client s3Client

	store  docstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a backup manager. Without complete S3 credentials the
// manager stays disabled and Run returns ErrDisabled.
func NewManager(cfg Config, store docstore.Store, logger *slog.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
		status: Status{State: StateDisabled},
	}
	if cfg.S3.complete() {
		m.client = newS3Client(cfg.S3)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Status returns the current backup status.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

// begin claims the manager for one run.
func (m *Manager) begin() (s3Client, Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil, m.status, ErrDisabled
	}
	if m.cfg.Passphrase == "" {
		return nil, m.status, ErrPassphrase
	}
	if m.status.State == StateRunning {
		return nil, m.status, ErrInProgress
	}
	prev := m.status
	m.status = Status{State: StateRunning, LastBackup: prev.LastBackup, LastKey: prev.LastKey}
	return m.client, prev, nil
}

// Run snapshots every collection, encrypts the snapshot, and uploads it.
func (m *Manager) Run(ctx context.Context) (*Result, error) {
	client, prev, err := m.begin()
	if err != nil {
		return nil, err
	}

	res, err := m.run(ctx, client)
	if err != nil {
		m.setStatus(Status{State: StateError, LastBackup: prev.LastBackup, LastKey: prev.LastKey, Error: err.Error()})
		m.logger.Error("backup failed", "error", err)
		return nil, err
	}

	taken := res.TakenAt
	m.setStatus(Status{State: StateIdle, LastBackup: &taken, LastKey: res.Key})
	m.logger.Info("backup uploaded", "key", res.Key, "size", res.SizeBytes, "documents", res.Documents)
	return res, nil
}

func (m *Manager) run(ctx context.Context, client s3Client) (*Result, error) {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	plain, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	sealed, err := Encrypt(plain, m.cfg.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	key := fmt.Sprintf("snapshots/backup-%s.json.enc", snap.TakenAt.Format("2006-01-02T150405Z"))
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.S3.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		return nil, fmt.Errorf("upload to s3: %w", err)
	}

	n := 0
	for _, recs := range snap.Collections {
		n += len(recs)
	}
	return &Result{Key: key, SizeBytes: int64(len(sealed)), TakenAt: snap.TakenAt, Documents: n}, nil
}

// Snapshot reads every collection from the store.
func (m *Manager) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		TakenAt:     m.now().UTC(),
		Collections: make(map[string][]Record, len(Collections)),
	}
	for _, c := range Collections {
		docs, err := m.store.Query(ctx, docstore.Query{Collection: c})
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", c, err)
		}
		recs := make([]Record, 0, len(docs))
		for _, d := range docs {
			recs = append(recs, Record{ID: d.ID, Fields: d.Fields})
		}
		snap.Collections[c] = recs
	}
	return snap, nil
}

// Load downloads and decrypts a previously uploaded snapshot.
func (m *Manager) Load(ctx context.Context, key string) (*Snapshot, error) {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()
	if client == nil {
		return nil, ErrDisabled
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download from s3: %w", err)
	}
	defer out.Body.Close()

	sealed, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read backup object: %w", err)
	}
	plain, err := Decrypt(sealed, m.cfg.Passphrase)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(plain))
	dec.UseNumber()
	var snap Snapshot
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
