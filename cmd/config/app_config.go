package config

import (
	"Nutrition-Tracker/internal/api/handlers"
	"Nutrition-Tracker/internal/api/routes"
	"Nutrition-Tracker/internal/middleware"
	"Nutrition-Tracker/internal/utils"
	"Nutrition-Tracker/internal/utils/cache"
	"Nutrition-Tracker/internal/utils/mailing"
	"Nutrition-Tracker/pkg/consumption"
	"Nutrition-Tracker/pkg/diet"
	"Nutrition-Tracker/pkg/ingredient"
	"Nutrition-Tracker/pkg/jwt"
	"Nutrition-Tracker/pkg/meal"
	"Nutrition-Tracker/pkg/nutrient"
	"Nutrition-Tracker/pkg/user"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("LOG_LEVEL") == "debug",
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("open access log: %w", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("TIMEZONE"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        utils.GetIntConfig("RATE_LIMIT", 20),
		Expiration: 1 * time.Second,
	}))

	// utils
	ingredientCache, err := cache.NewRedisCache(ctx)
	if err != nil {
		utils.Log.WithError(err).Warn("redis unavailable, ingredient cache disabled")
		ingredientCache = nil
	}
	mailer := mailing.NewMailer()

	// Repository
	userRepository := user.NewUserRepository(db)
	dietRepository := diet.NewDietRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	mealRepository := meal.NewMealRepository(db)
	consumptionRepository := consumption.NewConsumptionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, mailer, utils.GetConfig("APP_URL"))
	dietService := diet.NewDietService(dietRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository, ingredientCache)
	aggregator := nutrient.NewAggregator(ingredientService)
	versioner := meal.NewVersioner(mealRepository)
	mealService := meal.NewMealService(mealRepository, dietRepository, ingredientRepository, versioner, aggregator)
	consumptionService := consumption.NewConsumptionService(
		consumptionRepository,
		versioner,
		mealRepository,
		userRepository,
		ingredientRepository,
		aggregator,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	dietHandler := handlers.NewDietHandler(dietService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	mealHandler := handlers.NewMealHandler(mealService, validator)
	consumptionHandler := handlers.NewConsumptionHandler(consumptionService, validator)

	// routes
	routesConfig := routes.Config{
		App:                app,
		UserHandler:        userHandler,
		DietHandler:        dietHandler,
		IngredientHandler:  ingredientHandler,
		MealHandler:        mealHandler,
		ConsumptionHandler: consumptionHandler,
		Middleware:         middlewares,
		JWTService:         jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
