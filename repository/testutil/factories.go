package testutil

import (
	"petbroker/models"

	"github.com/google/uuid"
)

// CreateTestTradeRequest creates a pending trade request with default values
func CreateTestTradeRequest(username string, tradeType models.TradeType, bot string) *models.TradeRequest {
	details := []models.PetDetail{
		{Name: "Dragon", Rarity: "legendary", Flyable: true, Rideable: true},
	}
	return &models.TradeRequest{
		ID:         uuid.New(),
		Username:   username,
		Type:       tradeType,
		Bot:        bot,
		PetCounts:  models.PetCounts{"total": int64(len(details))},
		PetDetails: details,
		Status:     models.TradeStatusPending,
	}
}

// CreateTestTradeRequestWithPets creates a pending trade request itemizing the
// given pet names
func CreateTestTradeRequestWithPets(username string, tradeType models.TradeType, bot string, petNames ...string) *models.TradeRequest {
	request := CreateTestTradeRequest(username, tradeType, bot)
	details := make([]models.PetDetail, 0, len(petNames))
	for _, name := range petNames {
		details = append(details, models.PetDetail{Name: name})
	}
	request.PetDetails = details
	request.PetCounts = models.PetCounts{"total": int64(len(details))}
	return request
}

// CreateTestHistoryRecord creates a completed trade history record
func CreateTestHistoryRecord(username string, tradeType models.TradeType, bot string) *models.TradeHistoryRecord {
	return &models.TradeHistoryRecord{
		Username:   username,
		Type:       tradeType,
		Bot:        bot,
		PetCounts:  models.PetCounts{"total": 1},
		PetDetails: []models.PetDetail{{Name: "Dragon"}},
		Status:     models.TradeStatusCompleted,
	}
}
