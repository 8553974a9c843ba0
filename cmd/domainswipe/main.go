package main

import "github.com/DishankChauhan/Domain-Search/internal/cmd"

// @title        DomainSwipe Wallet API
// @version      1.0
// @description  Solana wallet connection and domain checkout payments.
// @BasePath     /
func main() {
	cmd.Execute()
}
