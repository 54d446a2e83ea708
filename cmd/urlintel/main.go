// Command urlintel analyzes a single URL and reports on its security,
// performance, content, technology and domain registration.
//
// Usage:
//
//	urlintel serve
//	urlintel analyze https://example.com
package main

func main() {
	Execute()
}
