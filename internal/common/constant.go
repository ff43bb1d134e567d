package common

// Header names used on outbound requests.
const (
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderCacheControl  = "Cache-Control"
)

// MIME types understood by the journal service.
const (
	MIMEJSON      = "application/json"
	MIMEForm      = "application/x-www-form-urlencoded"
	MIMEMultipart = "multipart/form-data"
)

// BearerScheme prefixes the access token in the Authorization header.
const BearerScheme = "Bearer"
