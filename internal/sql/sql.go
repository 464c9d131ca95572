// Package sql includes the database schema
package sql

import _ "embed"

//go:embed schema.sql
var schema string

func Schema() string {
	return schema
}

const CreateConversion = `
INSERT INTO conversions (
    id, run_id, service_name, resource_group, location,
    external, target_port, document, error
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING created_at`

// ListConversions filters by service when $1 is not empty.
const ListConversions = `
SELECT id, run_id, service_name, resource_group, location,
       external, target_port, document, error, created_at
FROM conversions
WHERE ($1::text = '' OR service_name = $1::text)
ORDER BY created_at DESC
LIMIT $2`
