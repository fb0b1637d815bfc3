package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Success 200 响应，直接输出数据本体
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error 错误响应，HTTP 状态码即业务状态码
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, msg string) {
	Error(c, http.StatusBadRequest, msg)
}

// Unauthorized 401 响应
func Unauthorized(c *gin.Context, msg string) {
	Error(c, http.StatusUnauthorized, msg)
}

// NotFound 404 响应
func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg)
}

// Conflict 409 响应
func Conflict(c *gin.Context, msg string) {
	Error(c, http.StatusConflict, msg)
}

// TooManyRequests 429 响应
func TooManyRequests(c *gin.Context, msg string) {
	Error(c, http.StatusTooManyRequests, msg)
}

// Internal 500 响应
func Internal(c *gin.Context, msg string) {
	Error(c, http.StatusInternalServerError, msg)
}
