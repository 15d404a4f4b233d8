package httpx

import "strconv"

// statusText is the fixed status vocabulary used by handler outcomes.
var statusText = map[int]string{
	200: "OK",
	301: "Moved Permanently",
	302: "Found",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	406: "Not Acceptable",
	500: "Internal Server Error",
	501: "Not Implemented",
}

// StatusText returns the reason phrase for a status code, or
// "Unknown Status" for codes outside the supported vocabulary.
func StatusText(code int) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown Status"
}

// StatusLine returns the "<code> <reason>" form used in emitted status
// headers, e.g. "302 Found".
func StatusLine(code int) string {
	return strconv.Itoa(code) + " " + StatusText(code)
}
