package routes

import (
	"Nutrition-Tracker/internal/api/handlers"
	"Nutrition-Tracker/internal/metrics"
	"Nutrition-Tracker/internal/middleware"
	"Nutrition-Tracker/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                *fiber.App
	UserHandler        handlers.UserHandler
	DietHandler        handlers.DietHandler
	IngredientHandler  handlers.IngredientHandler
	MealHandler        handlers.MealHandler
	ConsumptionHandler handlers.ConsumptionHandler
	Middleware         middleware.Middleware
	JWTService         jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.MetricsMiddleware())
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Diets()
	c.Ingredients()
	c.Meals()
	c.FoodLogs()
	c.FoodSchedules()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		user.Get("/verify", c.UserHandler.VerifyEmail)
		user.Post("/forget", c.UserHandler.ForgotPassword)
		user.Post("/reset", c.UserHandler.ResetPassword)
	}

	auth := c.Middleware.AuthMiddleware(c.JWTService)
	user.Get("/me", auth, c.UserHandler.Me)
	user.Post("/details", auth, c.UserHandler.CreateUserDetails)
	user.Put("/details", auth, c.UserHandler.UpdateUserDetails)
	user.Get("/:id/details", auth, c.UserHandler.GetUserDetails)
	user.Get("/:id/nutrients", auth, c.ConsumptionHandler.GetDailyTotals)
	user.Get("/:id/shopping-list", auth, c.ConsumptionHandler.GetShoppingList)

	user.Get("/diets", auth, c.DietHandler.GetUserDiets)
	user.Post("/diets", auth, c.DietHandler.AssignUserDiet)
	user.Delete("/diets/:diet_id", auth, c.DietHandler.RemoveUserDiet)
}

func (c *Config) Diets() {
	diets := c.App.Group("/api/v1/diets", c.Middleware.AuthMiddleware(c.JWTService))
	diets.Get("", c.DietHandler.GetDiets)
	diets.Post("", c.DietHandler.CreateDiet)
	diets.Get("/:id", c.DietHandler.GetDiet)

	categories := c.App.Group("/api/v1/categories", c.Middleware.AuthMiddleware(c.JWTService))
	categories.Get("", c.DietHandler.GetCategories)
	categories.Post("", c.DietHandler.CreateCategory)
}

func (c *Config) Ingredients() {
	ingredients := c.App.Group("/api/v1/ingredients", c.Middleware.AuthMiddleware(c.JWTService))
	ingredients.Get("", c.IngredientHandler.GetIngredients)
	ingredients.Get("/search", c.IngredientHandler.SearchIngredients)
	ingredients.Get("/:id", c.IngredientHandler.GetIngredient)
}

func (c *Config) Meals() {
	meals := c.App.Group("/api/v1/meals", c.Middleware.AuthMiddleware(c.JWTService))

	meals.Post("", c.MealHandler.CreateMeal)
	meals.Get("", c.MealHandler.GetMeals)
	meals.Get("/mine", c.MealHandler.GetMyMeals)
	meals.Get("/search", c.MealHandler.SearchMeals)
	meals.Get("/:id", c.MealHandler.GetMeal)
	meals.Patch("/:id", c.MealHandler.UpdateMeal)
	meals.Delete("/:id", c.MealHandler.DeleteMeal)

	// classification
	meals.Post("/:id/category", c.MealHandler.AssignCategory)
	meals.Put("/:id/category", c.MealHandler.UpdateCategory)
	meals.Delete("/:id/category", c.MealHandler.RemoveCategory)
	meals.Post("/:id/diet", c.MealHandler.AssignDiet)
	meals.Put("/:id/diet", c.MealHandler.UpdateDiet)
	meals.Delete("/:id/diet", c.MealHandler.RemoveDiet)

	// composition
	meals.Get("/:id/ingredients", c.MealHandler.GetMealIngredients)
	meals.Put("/:id/ingredients", c.MealHandler.ReplaceIngredients)
	meals.Post("/:id/ingredients", c.MealHandler.AddIngredient)
	meals.Delete("/:id/ingredients/:ingredient_id", c.MealHandler.RemoveIngredient)

	// history
	meals.Get("/:id/nutrients", c.MealHandler.GetMealNutrients)
	meals.Get("/:id/versions", c.MealHandler.GetMealVersions)
	meals.Get("/:id/versions/:version", c.MealHandler.GetMealVersion)
	meals.Get("/:id/versions/:version/nutrients", c.MealHandler.GetMealVersionNutrients)
}

func (c *Config) FoodLogs() {
	logs := c.App.Group("/api/v1/food-logs", c.Middleware.AuthMiddleware(c.JWTService))
	logs.Post("", c.ConsumptionHandler.CreateFoodLog)
	logs.Get("", c.ConsumptionHandler.GetFoodLogs)
	logs.Get("/:id", c.ConsumptionHandler.GetFoodLog)
	logs.Delete("/:id", c.ConsumptionHandler.DeleteFoodLog)
}

func (c *Config) FoodSchedules() {
	schedules := c.App.Group("/api/v1/food-schedules", c.Middleware.AuthMiddleware(c.JWTService))
	schedules.Post("", c.ConsumptionHandler.CreateFoodSchedule)
	schedules.Get("", c.ConsumptionHandler.GetFoodSchedules)
	schedules.Get("/:id", c.ConsumptionHandler.GetFoodSchedule)
	schedules.Delete("/:id", c.ConsumptionHandler.DeleteFoodSchedule)
}
