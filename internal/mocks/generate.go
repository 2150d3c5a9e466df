package mocks

//go:generate mockery --name EventLedger --srcpkg github.com/aevon-lab/adpulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name CampaignStore --srcpkg github.com/aevon-lab/adpulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name MirrorQueue --srcpkg github.com/aevon-lab/adpulse/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name Index --srcpkg github.com/aevon-lab/adpulse/internal/index --output ./index --outpkg indexmocks --with-expecter
