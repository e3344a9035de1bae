package storage

import (
	"database/sql"
	"embed"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"telegram-weather-stylist/internal/models"
)

//go:embed schema.sql
var ddl embed.FS

type DB struct{ *sql.DB }

func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = migrate(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(string(b))
	return err
}

// ---------- profiles --------------------------------------------------------

// UpsertProfile replaces the whole row for the chat, so a re-captured
// profile never keeps fields from the previous one.
func (d *DB) UpsertProfile(p *models.Profile) error {
	_, err := d.Exec(`
        INSERT INTO profiles (chat_id, gender, style, daily_insight, city, frequency, time_of_day, created_at)
        VALUES (?,?,?,?,?,?,?,?)
        ON CONFLICT(chat_id) DO UPDATE SET gender=excluded.gender,
            style=excluded.style,
            daily_insight=excluded.daily_insight,
            city=excluded.city,
            frequency=excluded.frequency,
            time_of_day=excluded.time_of_day
    `, p.ChatID, p.Gender, p.Style, p.DailyInsight, p.City, string(p.Frequency), p.TimeOfDay, time.Now().Unix())
	return err
}

func (d *DB) GetProfile(chatID int64) (*models.Profile, error) {
	var p models.Profile
	var freq string

	err := d.QueryRow(`
        SELECT chat_id, gender, style, daily_insight, city, frequency, time_of_day, created_at
        FROM profiles WHERE chat_id=?`, chatID,
	).Scan(&p.ChatID, &p.Gender, &p.Style, &p.DailyInsight, &p.City, &freq, &p.TimeOfDay, &p.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Frequency = models.Frequency(freq)
	return &p, nil
}

func (d *DB) DeleteProfile(chatID int64) error {
	_, err := d.Exec(`DELETE FROM profiles WHERE chat_id=?`, chatID)
	return err
}

// ListProfiles returns every stored profile, used at startup to bring
// daily delivery jobs back after a restart.
func (d *DB) ListProfiles() ([]models.Profile, error) {
	rows, err := d.Query(`SELECT chat_id, gender, style, daily_insight, city, frequency, time_of_day, created_at FROM profiles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []models.Profile
	for rows.Next() {
		var p models.Profile
		var freq string
		if err := rows.Scan(&p.ChatID, &p.Gender, &p.Style, &p.DailyInsight, &p.City, &freq, &p.TimeOfDay, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Frequency = models.Frequency(freq)
		res = append(res, p)
	}
	return res, rows.Err()
}
