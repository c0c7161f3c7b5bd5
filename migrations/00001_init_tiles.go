package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00001, Down00001)
}

//Up00001 creates the tile catalog.
func Up00001(tx *sql.Tx) error {
	// This code is executed when the migration is applied.
	err := addTileTable(tx)

	if err == nil {
		err = addTileIndexes(tx)
	}

	return err
}

//Down00001 undoes the db changes.
func Down00001(tx *sql.Tx) error {
	// This code is executed when the migration is rolled back.
	_, err := tx.Exec(`DROP TABLE IF EXISTS public.tiles;`)
	return err
}

func addTileTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE public.tiles
	(
		tile_id text COLLATE pg_catalog."default" NOT NULL,
		grid_name text COLLATE pg_catalog."default" NOT NULL,
		territory text COLLATE pg_catalog."default" NOT NULL,
		bounds geometry NOT NULL,
		CONSTRAINT "tiles_pk_tileId" PRIMARY KEY (tile_id)
	)
	WITH (
		OIDS = FALSE
	);
		`)

	return err
}

func addTileIndexes(tx *sql.Tx) error {

	_, err := tx.Exec(`
		CREATE INDEX idx_tiles_territory
		ON public.tiles (territory);

		CREATE INDEX idx_tiles_bounds
		ON public.tiles USING gist
		(bounds);
		`)

	return err
}
