package mysql

// Re-submitting the same id is a no-op so a retried request cannot store a
// lead twice.
const insertLeadSQL = `
INSERT INTO leads
  (id, name, email, phone, message, service, city, travel_date, travelers, source_path, raw, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE id = id
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; matches idx_leads_created.
const recentLeadsSQL = `
SELECT
  id,
  name,
  email,
  phone,
  message,
  service,
  city,
  travel_date,
  travelers,
  source_path,
  raw,
  created_at
FROM leads
ORDER BY created_at DESC, id DESC
LIMIT ?
`
