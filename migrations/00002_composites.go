package migration

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(Up00002, Down00002)
}

//Up00002 creates the output composite collection.
func Up00002(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE public.composites
	(
		composite_id bigserial NOT NULL,
		territory text COLLATE pg_catalog."default" NOT NULL,
		tile_id text COLLATE pg_catalog."default" NOT NULL,
		year smallint NOT NULL,
		sensor text COLLATE pg_catalog."default" NOT NULL,
		version text COLLATE pg_catalog."default" NOT NULL,
		created_at timestamp without time zone NOT NULL,
		CONSTRAINT "composites_pk_compositeId" PRIMARY KEY (composite_id),
		CONSTRAINT composites_unique_key UNIQUE (territory, tile_id, year, sensor, version)
	)
	WITH (
		OIDS = FALSE
	);

	CREATE TABLE public.composite_bands
	(
		composite_id bigint NOT NULL REFERENCES public.composites (composite_id) ON DELETE CASCADE,
		band_name text COLLATE pg_catalog."default" NOT NULL,
		width integer NOT NULL,
		height integer NOT NULL,
		payload bytea NOT NULL,
		CONSTRAINT composite_bands_unique_name UNIQUE (composite_id, band_name)
	)
	WITH (
		OIDS = FALSE
	);
		`)

	return err
}

//Down00002 undoes the db changes.
func Down00002(tx *sql.Tx) error {
	_, err := tx.Exec(`
		DROP TABLE IF EXISTS public.composite_bands;
		DROP TABLE IF EXISTS public.composites;
		`)
	return err
}
