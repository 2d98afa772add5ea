// Command relctl creates and inspects relkit image files.
package main

func main() {
	execute()
}
