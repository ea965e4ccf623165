package services

import (
	"errors"

	"github.com/anantham/nutrilens-sub002/config"
	"github.com/anantham/nutrilens-sub002/models"
)

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}

	return map[string]interface{}{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
	}, nil
}

func UpdateUserProfile(email, fullName string) error {
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return errors.New("user not found")
	}

	user.FullName = fullName
	return config.DB.Save(&user).Error
}
