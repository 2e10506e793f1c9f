package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"mmr-balancer/internal/domain"
)

type PlayerRepo struct {
	db *sql.DB
}

func NewPlayerRepo(db *sql.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

const playerColumns = `id, name, rating, server, history`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var (
		p       domain.Player
		history string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Rating, &p.Server, &history); err != nil {
		return p, err
	}
	h, err := domain.ParseHistory(history)
	if err != nil {
		return p, fmt.Errorf("player %d: %w", p.ID, err)
	}
	p.History = h
	return p, nil
}

// FetchPool returns at most n players in insertion order.
func (r *PlayerRepo) FetchPool(n int) ([]domain.Player, error) {
	rows, err := r.db.Query(`SELECT `+playerColumns+` FROM players ORDER BY id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("fetching pool: %w", err)
	}
	defer rows.Close()

	players := make([]domain.Player, 0, n)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GetByIDs returns the players in the order of ids.
func (r *PlayerRepo) GetByIDs(ids []int64) ([]domain.Player, error) {
	players := make([]domain.Player, 0, len(ids))
	for _, id := range ids {
		p, err := scanPlayer(r.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", domain.ErrPlayerNotFound, id)
		}
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// Persist writes rating and history of every player in one transaction.
// Nothing is stored unless all rows were updated.
func (r *PlayerRepo) Persist(players []domain.Player) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`UPDATE players SET rating = ?, history = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		res, err := stmt.Exec(p.Rating, p.History.String(), p.ID)
		if err != nil {
			return fmt.Errorf("updating player %d: %w", p.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("%w: id %d", domain.ErrPlayerNotFound, p.ID)
		}
	}

	return tx.Commit()
}

func (r *PlayerRepo) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM players`).Scan(&n)
	return n, err
}

// InsertMany adds all players in one transaction and returns them with their
// assigned ids.
func (r *PlayerRepo) InsertMany(players []domain.Player) (out []domain.Player, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`INSERT INTO players (name, rating, server, history) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	out = make([]domain.Player, len(players))
	for i, p := range players {
		res, err := stmt.Exec(p.Name, p.Rating, p.Server, p.History.String())
		if err != nil {
			return nil, fmt.Errorf("inserting %q: %w", p.Name, err)
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return nil, err
		}
		out[i] = p
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ladder lists every player by rating with a dense rank.
func (r *PlayerRepo) Ladder() ([]domain.LadderEntry, error) {
	rows, err := r.db.Query(`
		SELECT
			(
				SELECT COUNT(DISTINCT rating) + 1
				FROM players
				WHERE rating > p.rating
			) AS rank,
			p.name,
			p.server,
			p.rating,
			length(replace(p.history, '0', '')) AS wins,
			p.history
		FROM players p
		ORDER BY p.rating DESC, p.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.LadderEntry
	for rows.Next() {
		var e domain.LadderEntry
		if err := rows.Scan(&e.Rank, &e.Name, &e.Server, &e.Rating, &e.Wins, &e.History); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
