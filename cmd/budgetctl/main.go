// Command budgetctl inspects and seeds a budget tracker database from the terminal.
package main

func main() {
	Execute()
}
