package contextkeys

// Custom type avoids collisions with other packages' context keys.
type contextKey string

// DBContextKey is where DBMiddleware stores the *gorm.DB (pool or test
// transaction) in the request context.
const DBContextKey = contextKey("db")
