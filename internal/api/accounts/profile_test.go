package accounts

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestDeleteProfilePicture 删除头像后资料恢复为无头像状态
func TestDeleteProfilePicture(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewProfileHandler(mockService, nil)

	router := gin.New()
	router.DELETE("/profiles/me/picture", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, handler.DeleteProfilePicture)

	// 删除头像等同于把头像地址置空
	mockService.On("UpdateProfilePicture", 1, "").Return(nil)

	req, _ := http.NewRequest("DELETE", "/profiles/me/picture", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}
