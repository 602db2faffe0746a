package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"bizbilling-backend/database"
	"bizbilling-backend/models"
)

// Statistics serves the dashboard rollup: lifetime revenue and dues, entity
// counts, current-month figures, and the most recent invoices.
func Statistics(c *fiber.Ctx) error {
	db := database.CtxDB(c)

	var totalRevenue, pendingPayments decimal.Decimal
	row := db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(grand_total), 0), COALESCE(SUM(due_balance), 0)").
		Row()
	if err := row.Scan(&totalRevenue, &pendingPayments); err != nil {
		return err
	}

	var totalInvoices, totalProducts, totalCustomers int64
	db.Model(&models.Invoice{}).Count(&totalInvoices)
	db.Model(&models.Product{}).Count(&totalProducts)
	db.Model(&models.Customer{}).Count(&totalCustomers)

	now := time.Now()
	var monthRevenue decimal.Decimal
	var monthInvoices int64
	monthFilter := "EXTRACT(YEAR FROM invoice_date) = ? AND EXTRACT(MONTH FROM invoice_date) = ?"
	db.Model(&models.Invoice{}).
		Where(monthFilter, now.Year(), int(now.Month())).
		Count(&monthInvoices)
	monthRow := db.Model(&models.Invoice{}).
		Where(monthFilter, now.Year(), int(now.Month())).
		Select("COALESCE(SUM(grand_total), 0)").Row()
	if err := monthRow.Scan(&monthRevenue); err != nil {
		return err
	}

	var recent []models.Invoice
	if err := db.Preload("Customer").Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"total_revenue":        totalRevenue,
		"pending_payments":     pendingPayments,
		"total_invoices":       totalInvoices,
		"total_products":       totalProducts,
		"total_customers":      totalCustomers,
		"month_revenue":        monthRevenue,
		"month_invoices_count": monthInvoices,
		"recent_invoices":      recent,
	})
}
