package mysql

const upsertPlanSQL = `
INSERT INTO plans
  (id, origin, destination, departure_date, return_date, status, request, search, research, hotel_notes, itinerary, warnings, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  status      = VALUES(status),
  search      = VALUES(search),
  research    = VALUES(research),
  hotel_notes = VALUES(hotel_notes),
  itinerary   = VALUES(itinerary),
  warnings    = VALUES(warnings)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getPlanSQL = `
SELECT
  id,
  status,
  request,
  search,
  research,
  hotel_notes,
  itinerary,
  warnings,
  created_at
FROM plans
WHERE id = ?
`

// Newest first; aligns with the index on created_at.
const listPlansSQL = `
SELECT id, origin, destination, status, created_at
FROM plans
ORDER BY created_at DESC, id DESC
LIMIT ?
`
