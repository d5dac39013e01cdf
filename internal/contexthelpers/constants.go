package contexthelpers

type contextKey string

const authenticatedUserIDContextKey = contextKey("authenticatedUserID")
const currentPathContextKey = contextKey("currentPath")
const csrfTokenContextKey = contextKey("csrfToken")
