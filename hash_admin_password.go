//go:build ignore

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	fmt.Println("Admin Password Hasher")
	fmt.Println("---------------------")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
		fmt.Println("Continuing with environment variables...")
	}

	envFilePath := getEnv("ENV_FILE_PATH", ".env")

	// 1. Prompt for the password
	fmt.Print("Enter the admin password to hash: ")
	reader := bufio.NewReader(os.Stdin)
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	if password == "" {
		fmt.Println("No password provided. Exiting.")
		os.Exit(1)
	}

	// 2. Hash it
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error hashing password: %v\n", err)
		os.Exit(1)
	}

	// 3. Update the .env file
	fmt.Println("Updating .env file...")
	if err := updateEnvFile(string(hash), envFilePath); err != nil {
		fmt.Printf("Error updating .env: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Done. ADMIN_PASSWORD_HASH has been written; you can remove ADMIN_PASSWORD now.")
}

func updateEnvFile(newHash, envFilePath string) error {
	// Read the file
	content, err := os.ReadFile(envFilePath)
	if err != nil {
		return fmt.Errorf("could not read %s: %v", envFilePath, err)
	}

	fileContent := string(content)
	lines := strings.Split(fileContent, "\n")
	found := false
	newLines := []string{}

	// Regex to find the variable (handles spaces around =)
	regex := regexp.MustCompile(`^ADMIN_PASSWORD_HASH\s*=.*`)

	for _, line := range lines {
		if regex.MatchString(line) {
			// Replace the line with the new hash
			newLines = append(newLines, fmt.Sprintf("ADMIN_PASSWORD_HASH=%s", newHash))
			found = true
		} else {
			// Keep existing line
			newLines = append(newLines, line)
		}
	}

	// If the variable wasn't found, append it to the end
	if !found {
		newLines = append(newLines, fmt.Sprintf("ADMIN_PASSWORD_HASH=%s", newHash))
	}

	// Write back to file
	output := strings.Join(newLines, "\n")
	if err := os.WriteFile(envFilePath, []byte(output), 0600); err != nil {
		return err
	}

	return nil
}

// getEnv returns the value of the environment variable key or a fallback value.
func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
