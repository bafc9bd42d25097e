package response

import "github.com/gin-gonic/gin"

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes an error envelope carrying a titled detail
func RespondError(c *gin.Context, code int, title, message string, data interface{}) {
	RespondJSON(c, "error", code, message, data, ErrorDetail{Title: title, Message: message})
}
