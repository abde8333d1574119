package memory

import "expensedash/internal/core"

// SampleExpenses returns a fresh copy of the demo data set shown when no
// source is configured or the configured one fails.
func SampleExpenses() []core.Expense {
	return []core.Expense{
		{Date: "2024-01-15", Mode: "Credit Card", Category: "Food", SubCategory: "Restaurant", For: "Dinner", Amount: 45.50, Description: "Italian restaurant", Priority: "Medium", Avoidable: "Yes", Frequency: "Weekly"},
		{Date: "2024-01-14", Mode: "Cash", Category: "Transport", SubCategory: "Petrol", For: "Car", Amount: 60.00, Description: "Gas station", Priority: "High", Avoidable: "No", Frequency: "Weekly"},
		{Date: "2024-01-13", Mode: "Debit Card", Category: "Shopping", SubCategory: "Grocery", For: "Food", Amount: 120.75, Description: "Weekly groceries", Priority: "High", Avoidable: "No", Frequency: "Weekly"},
		{Date: "2024-01-12", Mode: "UPI", Category: "Entertainment", SubCategory: "Cinema", For: "Leisure", Amount: 25.00, Description: "Movie tickets", Priority: "Low", Avoidable: "Yes", Frequency: "Monthly"},
		{Date: "2024-01-11", Mode: "Credit Card", Category: "Bills", SubCategory: "Electricity", For: "Electricity", Amount: 85.30, Description: "Monthly electricity bill", Priority: "High", Avoidable: "No", Frequency: "Monthly"},
		{Date: "2024-01-10", Mode: "Debit Card", Category: "Food", SubCategory: "Delivery", For: "Lunch", Amount: 18.75, Description: "Thai food delivery", Priority: "Medium", Avoidable: "Yes", Frequency: "Daily"},
		{Date: "2024-01-09", Mode: "Cash", Category: "Transport", SubCategory: "Bus", For: "Commute", Amount: 12.50, Description: "Bus fare", Priority: "High", Avoidable: "No", Frequency: "Daily"},
		{Date: "2024-01-08", Mode: "Credit Card", Category: "Shopping", SubCategory: "Clothes", For: "Personal", Amount: 89.99, Description: "Winter jacket", Priority: "Medium", Avoidable: "No", Frequency: "Yearly"},
		{Date: "2024-01-07", Mode: "UPI", Category: "Health", SubCategory: "Medicine", For: "Medicine", Amount: 32.40, Description: "Prescription medication", Priority: "High", Avoidable: "No", Frequency: "Monthly"},
		{Date: "2024-01-06", Mode: "Debit Card", Category: "Entertainment", SubCategory: "Netflix", For: "Subscription", Amount: 15.99, Description: "Netflix subscription", Priority: "Low", Avoidable: "Yes", Frequency: "Monthly"},
		{Date: "2024-01-05", Mode: "Cash", Category: "Food", SubCategory: "Cafe", For: "Beverage", Amount: 4.50, Description: "Morning coffee", Priority: "Low", Avoidable: "Yes", Frequency: "Daily"},
		{Date: "2024-01-04", Mode: "Credit Card", Category: "Bills", SubCategory: "Broadband", For: "Utilities", Amount: 49.99, Description: "Monthly internet bill", Priority: "High", Avoidable: "No", Frequency: "Monthly"},
		{Date: "2024-01-03", Mode: "UPI", Category: "Transport", SubCategory: "Uber", For: "Travel", Amount: 22.30, Description: "Uber ride", Priority: "Medium", Avoidable: "Yes", Frequency: "Weekly"},
		{Date: "2024-01-02", Mode: "Debit Card", Category: "Shopping", SubCategory: "Toiletries", For: "Hygiene", Amount: 28.75, Description: "Shampoo and soap", Priority: "Medium", Avoidable: "No", Frequency: "Monthly"},
		{Date: "2024-01-01", Mode: "Cash", Category: "Entertainment", SubCategory: "Restaurant", For: "Celebration", Amount: 75.00, Description: "New Year dinner", Priority: "Low", Avoidable: "Yes", Frequency: "Yearly"},
	}
}
