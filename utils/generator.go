package utils

import (
	"math/rand"
	"time"

	"github.com/studyspacehq/studyspace/models"
	"gorm.io/gorm"
)

const receiptNumberLength = 10
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReceiptNumber produces a receipt number unique across payments,
// retrying on the rare collision.
func GenerateReceiptNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, receiptNumberLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		receipt := "RCP-" + string(b)

		var payment models.Payment
		err := tx.Where("receipt_number = ?", receipt).First(&payment).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return receipt, nil
			}
			return "", err
		}
	}
}
