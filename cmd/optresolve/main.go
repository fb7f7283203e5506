// optresolve resolves the render options a document would be rendered with.
//
// Usage:
//
//	# Resolve options for a local document with defaults from a file
//	optresolve resolve page.html --defaults render.toml
//
//	# Add call-site options and show where a value came from
//	optresolve resolve page.html --set viewport.width=1024 --trace viewport.width
//
//	# Locators are never scanned for metadata
//	optresolve resolve https://example.com --format yaml
//
//	# Show version information
//	optresolve version
package main

func main() {
	Execute()
}
