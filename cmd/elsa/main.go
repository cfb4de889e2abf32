package main

// Version is set by build -ldflags "-X main.Version=x.y.z"
var Version = "4.0.0"

func main() {
	Execute()
}
