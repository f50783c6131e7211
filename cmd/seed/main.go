package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	ledgerapp "github.com/fincontrol/backend/internal/application/ledger"
	partnerapp "github.com/fincontrol/backend/internal/application/partner"
	reconapp "github.com/fincontrol/backend/internal/application/reconciliation"
	"github.com/fincontrol/backend/internal/infrastructure/config"
	"github.com/fincontrol/backend/internal/infrastructure/events"
	"github.com/fincontrol/backend/internal/infrastructure/logger"
	"github.com/fincontrol/backend/internal/infrastructure/persistence"
)

// Seeds a demo tenant with categories, partners, a paid cash sale, an
// installment purchase plan and a few bank statement items. Intended for
// local development only.
func main() {
	var (
		tenantFlag string
		envFile    string
	)
	flag.StringVar(&tenantFlag, "tenant", "", "Tenant UUID to seed (default: generate a new one)")
	flag.StringVar(&envFile, "env-file", ".env", "Env file to load before reading configuration")
	flag.Parse()

	// A missing env file is fine; the environment may already be set.
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load env file %s: %v\n", envFile, err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	tenantID := uuid.New()
	if tenantFlag != "" {
		tenantID, err = uuid.Parse(tenantFlag)
		if err != nil {
			log.Fatal("Invalid tenant UUID", zap.String("tenant", tenantFlag))
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	txRepo := persistence.NewGormTransactionRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	bankRepo := persistence.NewGormBankItemRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	publisher := events.NoopPublisher{}
	transactions := ledgerapp.NewTransactionService(txRepo, txManager)
	payments := ledgerapp.NewPaymentService(txRepo, publisher, log)
	categories := ledgerapp.NewCategoryService(categoryRepo)
	partners := partnerapp.NewPartnerService(customerRepo, supplierRepo)
	matches := reconapp.NewMatchService(bankRepo, txRepo, txManager, publisher, log)

	ctx := context.Background()
	if err := seed(ctx, tenantID, transactions, payments, categories, partners, matches); err != nil {
		log.Fatal("Seed failed", zap.Error(err))
	}

	log.Info("Seed completed", zap.String("tenant_id", tenantID.String()))
}

func seed(
	ctx context.Context,
	tenantID uuid.UUID,
	transactions *ledgerapp.TransactionService,
	payments *ledgerapp.PaymentService,
	categories *ledgerapp.CategoryService,
	partners *partnerapp.PartnerService,
	matches *reconapp.MatchService,
) error {
	salesCategory, err := categories.CreateCategory(ctx, tenantID, ledgerapp.CreateCategoryRequest{
		Name: "Vendas", Type: "INCOME",
	})
	if err != nil {
		return fmt.Errorf("create income category: %w", err)
	}
	suppliesCategory, err := categories.CreateCategory(ctx, tenantID, ledgerapp.CreateCategoryRequest{
		Name: "Fornecedores", Type: "EXPENSE",
	})
	if err != nil {
		return fmt.Errorf("create expense category: %w", err)
	}

	customer, err := partners.CreateCustomer(ctx, tenantID, partnerapp.PartnerRequest{
		Name:     "Mercado Central Ltda",
		Document: "12.345.678/0001-90",
		Email:    "financeiro@mercadocentral.com.br",
	})
	if err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	supplier, err := partners.CreateSupplier(ctx, tenantID, partnerapp.PartnerRequest{
		Name:     "Distribuidora Norte SA",
		Document: "98.765.432/0001-10",
	})
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)

	// A cash sale, already received via PIX.
	sale, err := transactions.CreateTransaction(ctx, tenantID, ledgerapp.CreateTransactionRequest{
		Type:        "SALE",
		Amount:      decimal.NewFromFloat(450.00),
		Description: "Venda balcao - pedido 1042",
		CategoryID:  &salesCategory.ID,
		CustomerID:  &customer.ID,
		DueDate:     now,
	})
	if err != nil {
		return fmt.Errorf("create cash sale: %w", err)
	}
	if _, err := payments.ConfirmPayment(ctx, tenantID, sale.ID, ledgerapp.ConfirmPaymentRequest{
		PaidAmount:    decimal.NewFromFloat(450.00),
		PaymentMethod: "PIX",
	}); err != nil {
		return fmt.Errorf("confirm sale payment: %w", err)
	}

	// A purchase split into monthly installments.
	if _, err := transactions.CreateInstallmentPlan(ctx, tenantID, ledgerapp.CreateInstallmentPlanRequest{
		Type:         "PURCHASE",
		TotalAmount:  decimal.NewFromFloat(1200.00),
		Installments: 4,
		Description:  "Compra de estoque - NF 8831",
		CategoryID:   &suppliesCategory.ID,
		SupplierID:   &supplier.ID,
		FirstDueDate: now.AddDate(0, 1, 0),
	}); err != nil {
		return fmt.Errorf("create installment plan: %w", err)
	}

	// Bank statement items waiting for reconciliation.
	bankItems := []reconapp.CreateBankItemRequest{
		{Date: now, Amount: decimal.NewFromFloat(450.00), Description: "PIX RECEBIDO MERCADO CENTRAL"},
		{Date: now.AddDate(0, 0, -1), Amount: decimal.NewFromFloat(-300.00), Description: "TED DISTRIBUIDORA NORTE"},
		{Date: now.AddDate(0, 0, -2), Amount: decimal.NewFromFloat(-45.90), Description: "TARIFA PACOTE SERVICOS"},
	}
	for _, item := range bankItems {
		if _, err := matches.CreateBankItem(ctx, tenantID, item); err != nil {
			return fmt.Errorf("create bank item: %w", err)
		}
	}

	return nil
}
