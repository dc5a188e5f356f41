package sessions

// Schema creates the tables Repo reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS public.session
(
    id         VARCHAR PRIMARY KEY,
    type       VARCHAR     NOT NULL,
    start_at   TIMESTAMPTZ NOT NULL,
    finished   BOOLEAN     NOT NULL DEFAULT FALSE,
    doc        JSONB       NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_session_start_at ON public.session USING btree (start_at);
CREATE INDEX IF NOT EXISTS ix_session_type ON public.session (type);

CREATE TABLE IF NOT EXISTS public.player
(
    id           VARCHAR PRIMARY KEY,
    name         VARCHAR NOT NULL,
    shirt_number INTEGER NOT NULL DEFAULT 0
);
`
