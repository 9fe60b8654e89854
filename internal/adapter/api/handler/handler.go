package handler

import (
	"sokoni/internal/usecase"
)

var (
	userHandler     *UserHandler
	productHandler  *ProductHandler
	messageHandler  *MessageHandler
	orderHandler    *OrderHandler
	cartHandler     *CartHandler
	favoriteHandler *FavoriteHandler
)

func Setup(
	userUseCase *usecase.UserUseCase,
	productUseCase *usecase.ProductUseCase,
	messageUseCase *usecase.MessageUseCase,
	orderUseCase *usecase.OrderUseCase,
	cartUseCase *usecase.CartUseCase,
	checkoutUseCase *usecase.CheckoutUseCase,
	favoriteUseCase *usecase.FavoriteUseCase,
) {
	userHandler = NewUserHandler(userUseCase)
	productHandler = NewProductHandler(productUseCase)
	messageHandler = NewMessageHandler(messageUseCase)
	orderHandler = NewOrderHandler(orderUseCase)
	cartHandler = NewCartHandler(cartUseCase, checkoutUseCase)
	favoriteHandler = NewFavoriteHandler(favoriteUseCase)
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetProductHandler() *ProductHandler {
	return productHandler
}

func GetMessageHandler() *MessageHandler {
	return messageHandler
}

func GetOrderHandler() *OrderHandler {
	return orderHandler
}

func GetCartHandler() *CartHandler {
	return cartHandler
}

func GetFavoriteHandler() *FavoriteHandler {
	return favoriteHandler
}
