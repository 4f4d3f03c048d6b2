package version

// go build -ldflags "-X github.com/sobadon/sktv/cmd/sktv/version.version=..."
var version = "dev"
