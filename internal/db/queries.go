package db

const (
	// sqlLockSchema serializes schema bootstrap across concurrent processes.
	sqlLockSchema = `SELECT pg_advisory_xact_lock(hashtext('aipx_schema'))`

	sqlDeleteCollection = `DELETE FROM aipx_collections WHERE id = $1`

	sqlInsertCollection = `
INSERT INTO aipx_collections (id, label, type, item_count, text_item_count)
VALUES ($1, $2, $3, $4, $5)`

	sqlInsertItem = `
INSERT INTO aipx_items (
    collection_id, id, position, parent_id, parent_ids, type, label,
    size, created_at, width, height, resolution, duration, sort_order,
    original_uri, original_puid, access_uri, access_puid, fixity
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	sqlInsertTextItem = `
INSERT INTO aipx_text_items (collection_id, id, position, item_id, type, language, encoding, uri)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	sqlSelectItems = `
SELECT id, parent_id, parent_ids, collection_id, type, label,
       size, created_at, width, height, resolution, duration, sort_order,
       original_uri, original_puid, access_uri, access_puid, fixity
FROM aipx_items
WHERE collection_id = $1
ORDER BY position`

	sqlSelectTextItems = `
SELECT id, item_id, collection_id, type, language, encoding, uri
FROM aipx_text_items
WHERE collection_id = $1
ORDER BY position`
)
