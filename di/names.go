package di

// AppNames defines the container keys of a speechkit application.
type AppNames struct {
	Config      string
	Logger      string
	Metrics     string
	Plugins     string
	Transcriber string
	Providers   string
	Options     string
	HTTPServer  string
}

// App contains the container keys of a speechkit application.
var App = AppNames{
	Config:      "config",
	Logger:      "logger",
	Metrics:     "metrics",
	Plugins:     "plugins",
	Transcriber: "transcriber",
	Providers:   "providers",
	Options:     "options",
	HTTPServer:  "http_server",
}

// Scoped returns key qualified by name, for components registered once per
// plugin instance.
func Scoped(key, name string) string {
	return key + "." + name
}
