package roleguard

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// roleRow is the database model for one snapshot entry.
type roleRow struct {
	bun.BaseModel `bun:"table:role_graph,alias:rg"`

	Name      string    `bun:"name,pk"`
	Members   []string  `bun:"members,type:text[]"`
	Children  []string  `bun:"children,type:text[]"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// PostgresStore persists snapshots in a single role_graph table, one row
// per role. Save replaces the whole table within a transaction so readers
// never observe a half-written graph.
type PostgresStore struct {
	db dbkit.IDB
}

// NewPostgresStore creates a store backed by the given database handle.
// Run Migrations before the first Load or Save.
//
// Example:
//
//	db, err := dbkit.New(dbkit.Config{URL: databaseURL})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := roleguard.NewPostgresStore(db)
//	if _, err := db.Migrate(ctx, store.Migrations()); err != nil {
//	    log.Fatal(err)
//	}
func NewPostgresStore(db dbkit.IDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrations returns the database migrations the store requires.
func (s *PostgresStore) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "roleguard-001",
			Description: "Create role_graph table",
			SQL: `
                CREATE TABLE IF NOT EXISTS role_graph (
                    name TEXT PRIMARY KEY,
                    members TEXT[],
                    children TEXT[],
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
	}
}

// Load reads the full role graph. A missing or empty table yields an empty
// snapshot.
func (s *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	var rows []roleRow
	err := s.db.NewSelect().Model(&rows).Scan(ctx)
	err = dbkit.WithErr1(err, "LoadRoleGraph").Err()
	if err != nil {
		return nil, err
	}

	snap := make(Snapshot, len(rows))
	for _, row := range rows {
		snap[row.Name] = RoleState{Members: row.Members, Children: row.Children}
	}
	return snap, nil
}

// Save replaces the stored graph with the snapshot.
func (s *PostgresStore) Save(ctx context.Context, snap Snapshot) error {
	now := time.Now()
	rows := make([]*roleRow, 0, len(snap))
	for name, state := range snap {
		rows = append(rows, &roleRow{
			Name:      name,
			Members:   state.Members,
			Children:  state.Children,
			UpdatedAt: now,
		})
	}

	run := func(ctx context.Context, db dbkit.IDB) error {
		result, err := db.NewDelete().Table("role_graph").Where("TRUE").Exec(ctx)
		err = dbkit.WithErr(result, err, "ClearRoleGraph").Err()
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err = dbkit.BatchInsert(ctx, db, rows, dbkit.BatchSize)
		return dbkit.WithErr1(err, "SaveRoleGraph").Err()
	}

	switch db := s.db.(type) {
	case *dbkit.DBKit:
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return run(ctx, tx)
		})
	case *dbkit.Tx:
		return db.Transaction(ctx, func(tx *dbkit.Tx) error {
			return run(ctx, tx)
		})
	default:
		return run(ctx, s.db)
	}
}
