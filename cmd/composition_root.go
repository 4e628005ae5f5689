package cmd

import (
	"context"

	"grocery/internal/adapters/out/imagestore"
	"grocery/internal/adapters/out/kyc"
	"grocery/internal/adapters/out/ocr"
	"grocery/internal/adapters/out/postgres"
	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/application/usecases/queries"
	"grocery/internal/core/domain/services"
	"grocery/internal/core/ports"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	images     *imagestore.MinioImageStore
	kycGate    ports.KYCGate
	extractor  ports.ReceiptExtractor
	reconciler services.ReceiptReconciler
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	minioClient *minio.Client,
) CompositionRoot {
	images := imagestore.NewMinioImageStore(minioClient, config.MinioBucket)
	openaiClient := openai.NewClient(config.OpenAIAPIKey)

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		images:     images,
		kycGate:    kyc.NewRedisKYCGate(redisClient),
		extractor:  ocr.NewOpenAIReceiptExtractor(openaiClient, images, config.OpenAIModel),
		reconciler: services.NewReceiptReconciler(),
	}
}

func (c *CompositionRoot) ImageStore() ports.ImageStore {
	return c.images
}

// EnsureReceiptBucket creates the receipt image bucket when it does not exist.
func (c *CompositionRoot) EnsureReceiptBucket(ctx context.Context) error {
	return c.images.EnsureBucket(ctx)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.orderUoWFactory(), c.kycGate)
}

func (c *CompositionRoot) CreateStartShoppingCommandHandler() commands.StartShoppingCommandHandler {
	return commands.NewStartShoppingCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateSubmitReceiptCommandHandler() commands.SubmitReceiptCommandHandler {
	return commands.NewSubmitReceiptCommandHandler(c.crossUoWFactory(), c.extractor, c.reconciler)
}

func (c *CompositionRoot) CreateReviewReceiptCommandHandler() commands.ReviewReceiptCommandHandler {
	return commands.NewReviewReceiptCommandHandler(c.crossUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateReextractReceiptsCommandHandler() commands.ReextractReceiptsCommandHandler {
	return commands.NewReextractReceiptsCommandHandler(c.crossUoWFactory(), c.extractor, c.reconciler)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAuditTrailQueryHandler() queries.GetAuditTrailQueryHandler {
	return queries.NewGetAuditTrailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetClaimableOrdersQueryHandler() queries.GetClaimableOrdersQueryHandler {
	return queries.NewGetClaimableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) crossUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
