package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/urmzd/intelliglow/pkg/bulb"
	"github.com/urmzd/intelliglow/pkg/discovery"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoActiveProfile = errors.New("no active profile found")
)

// Profile is the complete runtime configuration for one installation.
type Profile struct {
	ID            int64
	Name          string
	IsActive      bool
	APIHost       string
	APIPort       int
	BulbHost      string
	BulbPort      int
	BulbTimeout   time.Duration
	ScanPortStart int
	ScanPortEnd   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// APIAddress returns the API server listen address.
func (p *Profile) APIAddress() string {
	return fmt.Sprintf("%s:%d", p.APIHost, p.APIPort)
}

// BulbConfig returns the default bulb connection settings.
func (p *Profile) BulbConfig() bulb.Config {
	return bulb.Config{
		Addr:    bulb.Addr{Host: p.BulbHost, Port: p.BulbPort},
		Timeout: p.BulbTimeout,
	}
}

// ScanPorts returns the discovery port range.
func (p *Profile) ScanPorts() discovery.PortRange {
	return discovery.PortRange{Start: p.ScanPortStart, End: p.ScanPortEnd}
}

const profileColumns = `
	id, name, is_active, api_host, api_port,
	bulb_host, bulb_port, bulb_timeout_ms,
	scan_port_start, scan_port_end, created_at, updated_at
`

func scanProfile(row *sql.Row) (*Profile, error) {
	p := &Profile{}
	var timeoutMS int64
	var createdAt, updatedAt string
	err := row.Scan(
		&p.ID, &p.Name, &p.IsActive, &p.APIHost, &p.APIPort,
		&p.BulbHost, &p.BulbPort, &timeoutMS,
		&p.ScanPortStart, &p.ScanPortEnd, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.BulbTimeout = time.Duration(timeoutMS) * time.Millisecond
	p.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	p.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return p, nil
}

// ActiveProfile loads the configuration for the active profile.
func (db *DB) ActiveProfile(ctx context.Context) (*Profile, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE is_active = 1 LIMIT 1
	`)
	p, err := scanProfile(row)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, ErrNoActiveProfile
	}
	return p, err
}

// ProfileByName loads a profile by name.
func (db *DB) ProfileByName(ctx context.Context, name string) (*Profile, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE name = ?
	`, name)
	return scanProfile(row)
}

// SaveProfile persists profile settings. The profile must already exist.
func (db *DB) SaveProfile(ctx context.Context, p *Profile) error {
	result, err := db.ExecContext(ctx, `
		UPDATE profiles SET
			api_host = ?, api_port = ?,
			bulb_host = ?, bulb_port = ?, bulb_timeout_ms = ?,
			scan_port_start = ?, scan_port_end = ?,
			updated_at = datetime('now')
		WHERE id = ?
	`,
		p.APIHost, p.APIPort,
		p.BulbHost, p.BulbPort, p.BulbTimeout.Milliseconds(),
		p.ScanPortStart, p.ScanPortEnd, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// SetActive marks one profile active and deactivates the rest.
func (db *DB) SetActive(ctx context.Context, id int64) error {
	return db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE profiles SET is_active = 0`); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx, `UPDATE profiles SET is_active = 1 WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrProfileNotFound
		}
		return nil
	})
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Bootstrap creates the default profile on first run. The column defaults
// carry the factory settings: API on 0.0.0.0:8080, default bulb at
// 192.168.1.45:4000 with a 5s timeout, scan range 4000-4010.
func (db *DB) Bootstrap(ctx context.Context) error {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check profiles: %w", err)
	}

	if count > 0 {
		return nil // Already bootstrapped
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO profiles (name, is_active) VALUES ('default', 1)
	`)
	if err != nil {
		return fmt.Errorf("failed to create default profile: %w", err)
	}

	return nil
}
