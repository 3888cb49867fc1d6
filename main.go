package main

import (
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
)

func main() {
	initAdminToken()

	designs := newCollection(designsConfig(), openStore("designs"))
	models := newCollection(practiceModelsConfig(), openStore("practiceModels"))
	profile := newProfile(openStore("profile"))

	r := gin.Default()
	registerRoutes(r, designs, models, profile)

	// Preview images and downloadable CAD files
	r.Static("/projects", "./static/projects")
	r.Static("/cad-files", "./static/cad-files")
	r.Static("/static", "./static")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("portfolio server listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("serve: %v", err)
	}
}

func registerRoutes(r *gin.Engine, designs, models *Collection, profile *Profile) {
	dh := &contentHandlers{col: designs, label: "design"}
	mh := &contentHandlers{col: models, label: "practice model"}

	api := r.Group("/api")

	// Public read endpoints
	api.GET("/designs", dh.listPublic)
	api.GET("/designs/:id", dh.getOne)
	api.GET("/practice-models", mh.listPublic)
	api.GET("/practice-models/:id", mh.getOne)
	api.GET("/profile", profile.getHandler)
	api.POST("/contact", contactHandler)

	// Admin session
	api.POST("/admin/login", adminLoginHandler)
	api.POST("/admin/logout", adminLogoutHandler)

	// Everything below mutates content or exposes hidden records
	admin := api.Group("")
	admin.Use(adminAuthMiddleware())

	admin.GET("/admin/designs", dh.listAdmin)
	admin.POST("/designs", dh.create)
	admin.PUT("/designs/:id", dh.update)
	admin.DELETE("/designs/:id", dh.delete)
	admin.POST("/designs/reset", dh.reset)

	admin.GET("/admin/practice-models", mh.listAdmin)
	admin.POST("/practice-models", mh.create)
	admin.PUT("/practice-models/:id", mh.update)
	admin.DELETE("/practice-models/:id", mh.delete)
	admin.POST("/practice-models/reset", mh.reset)
	admin.PATCH("/practice-models/reorder", mh.reorder)

	admin.PUT("/profile", profile.putHandler)
}
