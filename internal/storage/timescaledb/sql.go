package timescaledb

const createTableSQL = `CREATE TABLE IF NOT EXISTS samples (
  time TIMESTAMPTZ NOT NULL,
  run_id TEXT NOT NULL,
  parameter TEXT NOT NULL,
  scenario INT NOT NULL DEFAULT 0,
  value FLOAT8
);
CREATE INDEX IF NOT EXISTS samples_run_parameter_idx ON samples (run_id, parameter, time DESC);`

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb;`

const createHypertableSQL = `SELECT create_hypertable('samples', 'time', if_not_exists => TRUE);`

const createEnergy1hViewSQL = `CREATE MATERIALIZED VIEW IF NOT EXISTS energy_1h
WITH (timescaledb.continuous) AS
SELECT
  time_bucket('1 hour', time) AS bucket,
  run_id,
  parameter,
  scenario,
  avg(value) AS avg_power,
  max(value) AS max_power,
  count(*) AS sample_count
FROM samples
GROUP BY bucket, run_id, parameter, scenario
WITH NO DATA;`

const createEnergy1dViewSQL = `CREATE MATERIALIZED VIEW IF NOT EXISTS energy_1d
WITH (timescaledb.continuous) AS
SELECT
  time_bucket('1 day', time) AS bucket,
  run_id,
  parameter,
  scenario,
  avg(value) AS avg_power,
  max(value) AS max_power,
  count(*) AS sample_count
FROM samples
GROUP BY bucket, run_id, parameter, scenario
WITH NO DATA;`

const addAggregationPolicy1hSQL = `SELECT add_continuous_aggregate_policy('energy_1h',
  start_offset => INTERVAL '3 hours',
  end_offset => INTERVAL '1 hour',
  schedule_interval => INTERVAL '1 hour',
  if_not_exists => TRUE);`

const addAggregationPolicy1dSQL = `SELECT add_continuous_aggregate_policy('energy_1d',
  start_offset => INTERVAL '3 days',
  end_offset => INTERVAL '1 day',
  schedule_interval => INTERVAL '1 day',
  if_not_exists => TRUE);`
