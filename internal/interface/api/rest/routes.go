package rest

const (
	RouteIndex    = "/"
	RouteRegister = "/register"
	RouteLogin    = "/login"
	RouteLogout   = "/logout"

	RouteDashboard    = "/dashboard"
	RouteDownload     = "/download/:filename"
	RouteFileDownload = "/files/:file_id/download"

	RouteAdmin = "/admin"

	// ops
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
