package dto

// HeaderRequestID carries the id the client generates per call. The API
// echoes it and logs it with the access line.
const HeaderRequestID = "X-Request-ID"
