package config

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"
)

// ParameterLister is the subset of the SSM client used to read parameters.
type ParameterLister interface {
	GetParametersByPath(ctx context.Context, params *ssm.GetParametersByPathInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error)
}

// NewSSMClient builds an SSM client from the default AWS credential chain.
func NewSSMClient(ctx context.Context) (*ssm.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// MergeSSM copies every parameter under parameterPath into config, keyed by the
// parameter's base name. Keys already present in config are left alone so the
// process environment always wins.
func MergeSSM(ctx context.Context, config map[string]string, client ParameterLister, parameterPath string) error {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(parameterPath),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	loaded := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("read ssm parameters under %s: %w", parameterPath, err)
		}
		for _, parameter := range page.Parameters {
			key := path.Base(aws.ToString(parameter.Name))
			if existing, ok := config[key]; ok && existing != "" {
				continue
			}
			config[key] = aws.ToString(parameter.Value)
			loaded++
		}
	}

	log.Info().Str("path", parameterPath).Int("parameters", loaded).Msg("Loaded configuration from SSM")
	return nil
}
