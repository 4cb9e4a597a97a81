package postgres

// SQL queries for the documents table. Every collection shares one table keyed by
// (collection, id); the document body lives in a JSONB column.

const (
	// queryFindDocuments returns the first $2 documents of collection $1 in insertion order.
	// id breaks ties between rows inserted in the same transaction.
	queryFindDocuments = `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2
	`

	// queryUpdateDocument merges $3 into the stored body. Keys in $3 overwrite,
	// everything else is kept. Zero rows affected means the document does not exist.
	queryUpdateDocument = `
		UPDATE documents
		SET data = data || $3::jsonb,
		    updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`

	// querySchemaExists checks the migrations have created the documents table.
	querySchemaExists = `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = 'documents'
		)
	`
)
