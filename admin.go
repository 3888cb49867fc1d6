// admin.go - Admin session handling for the dashboard API
//
// The dashboard authenticates once with the configured credentials and gets
// back an opaque server-generated token; every mutating call must present it
// as a cookie or bearer header. Tokens are minted fresh at startup, so a
// restart invalidates old sessions.
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

var adminToken string
var hashingSalt string

func initAdminToken() {
	adminToken = generateAdminToken()
	hashingSalt = generateAdminToken() // Used for IP hashing in logs

	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", adminToken)
	}
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate admin token:", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash IP addresses before they reach the logs (consistent per IP)
func hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

func presentedToken(c *gin.Context) string {
	if token, err := c.Cookie("admin_token"); err == nil {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Middleware guarding every admin-mutating endpoint
func adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := presentedToken(c)
		if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func adminCredentials() (string, string) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	// Default credentials for development (remove in production)
	if email == "" {
		email = "admin@localhost"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin email. Set ADMIN_EMAIL environment variable.")
		}
	}
	if password == "" {
		password = "admin123"
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
		}
	}
	return email, password
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func adminLoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	email, password := adminCredentials()
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(password)) == 1
	if !emailOK || !passOK {
		log.Printf("Failed admin login attempt from %s", hashIP(c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Session cookie (24 hours)
	c.SetCookie("admin_token", adminToken, 3600*24, "/", "", false, true)
	log.Printf("Admin login successful from %s", hashIP(c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"token": adminToken})
}

func adminLogoutHandler(c *gin.Context) {
	c.SetCookie("admin_token", "", -1, "/", "", false, true)
	log.Printf("Admin logout from %s", hashIP(c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
